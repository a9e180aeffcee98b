// Package store persists chat conversations as a single JSON document.
// Corruption is treated as an empty history rather than an error so a bad
// file never takes the assistant down.
package store

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nirmanlabs/apis-assistant/pkg/types"
)

const maxTitleRunes = 40

type Store struct {
	mu   sync.Mutex
	path string
	log  *slog.Logger
}

func New(path string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{path: path, log: log}
}

// Load returns all conversations, most recently updated first. A missing or
// unreadable file yields an empty list.
func (s *Store) Load() []types.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() []types.Conversation {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("conversation store unreadable, starting empty", "path", s.path, "err", err)
		}
		return nil
	}
	var out []types.Conversation
	if err := json.Unmarshal(data, &out); err != nil {
		s.log.Warn("conversation store corrupt, starting empty", "path", s.path, "err", err)
		return nil
	}
	return out
}

// Save upserts one conversation and returns the updated list. The entry moves
// to the front; once a real exchange exists the title is derived from the
// first user message.
func (s *Store) Save(conv types.Conversation) []types.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv.UpdatedAt = time.Now()
	if len(conv.Messages) > 1 {
		conv.Title = Title(conv.Messages)
	}

	list := s.load()
	out := make([]types.Conversation, 0, len(list)+1)
	out = append(out, conv)
	for _, c := range list {
		if c.ID != conv.ID {
			out = append(out, c)
		}
	}

	s.write(out)
	return out
}

// Delete removes a conversation by id and returns the remaining list.
func (s *Store) Delete(id string) []types.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.load()
	out := make([]types.Conversation, 0, len(list))
	for _, c := range list {
		if c.ID != id {
			out = append(out, c)
		}
	}

	s.write(out)
	return out
}

// write persists atomically via rename so a crash mid-write never corrupts
// the previous file.
func (s *Store) write(list []types.Conversation) {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		s.log.Error("marshal conversations", "err", err)
		return
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.log.Error("create store directory", "dir", dir, "err", err)
			return
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.log.Error("write conversation store", "path", tmp, "err", err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.log.Error("replace conversation store", "path", s.path, "err", err)
	}
}

// NewConversation creates an empty conversation with a fresh id.
func NewConversation() types.Conversation {
	now := time.Now()
	return types.Conversation{
		ID:        "conv_" + uuid.NewString(),
		Title:     "New Chat",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Title derives a sidebar title from the first user message, truncated to 40
// characters with an ellipsis.
func Title(messages []types.Message) string {
	for _, m := range messages {
		if m.Role != types.RoleUser || m.Text == "" {
			continue
		}
		runes := []rune(m.Text)
		if len(runes) > maxTitleRunes {
			return string(runes[:maxTitleRunes]) + "..."
		}
		return m.Text
	}
	return "New Chat"
}

// DisplayDate renders an updated-at time the way the sidebar groups entries:
// clock time today, "Yesterday", the weekday within a week, otherwise a short
// date. Grouping is by calendar day, not elapsed hours, so entries do not
// shift buckets depending on the time of day.
func DisplayDate(t, now time.Time) string {
	tDay := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := int(nowDay.Sub(tDay).Hours() / 24)
	switch {
	case days <= 0:
		return t.Format("15:04")
	case days == 1:
		return "Yesterday"
	case days < 7:
		return t.Format("Mon")
	default:
		return t.Format("Jan 2")
	}
}
