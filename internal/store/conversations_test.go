package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nirmanlabs/apis-assistant/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "conversations.json"), nil)
}

func msg(role types.Role, text string) types.Message {
	return types.Message{ID: "m-" + text[:min(4, len(text))], Role: role, Text: text, Timestamp: time.Now()}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	conv := NewConversation()
	conv.Messages = []types.Message{
		msg(types.RoleUser, "Tell me about Admissions"),
		msg(types.RoleAssistant, "Admissions are open for 2026-27."),
	}
	s.Save(conv)

	loaded := s.Load()
	require.Len(t, loaded, 1)
	got := loaded[0]
	assert.Equal(t, conv.ID, got.ID)
	assert.Equal(t, "Tell me about Admissions", got.Title)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, types.RoleUser, got.Messages[0].Role)
	assert.Equal(t, types.RoleAssistant, got.Messages[1].Role)
	assert.WithinDuration(t, conv.Messages[0].Timestamp, got.Messages[0].Timestamp, time.Second)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestTitleTruncation(t *testing.T) {
	long := strings.Repeat("a", 50)
	title := Title([]types.Message{msg(types.RoleUser, long)})
	assert.Equal(t, strings.Repeat("a", 40)+"...", title)
	assert.Equal(t, 43, len([]rune(title)))

	assert.Equal(t, "short question", Title([]types.Message{msg(types.RoleUser, "short question")}))
	assert.Equal(t, "New Chat", Title(nil))
	assert.Equal(t, "New Chat", Title([]types.Message{msg(types.RoleAssistant, "hello, how can I help?")}))
}

func TestSingleMessageKeepsDefaultTitle(t *testing.T) {
	s := newTestStore(t)

	conv := NewConversation()
	conv.Messages = []types.Message{msg(types.RoleUser, "Hello there")}
	list := s.Save(conv)

	require.Len(t, list, 1)
	assert.Equal(t, "New Chat", list[0].Title, "title stays until a reply arrives")
}

func TestCorruptFileLoadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversations.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := New(path, nil)
	assert.Empty(t, s.Load())

	// The store stays usable after corruption.
	list := s.Save(NewConversation())
	assert.Len(t, list, 1)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	a := NewConversation()
	b := NewConversation()
	s.Save(a)
	s.Save(b)

	list := s.Delete(a.ID)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	assert.Len(t, s.Delete("conv_missing"), 1)
}

func TestRecencyOrder(t *testing.T) {
	s := newTestStore(t)

	a := NewConversation()
	b := NewConversation()
	s.Save(a)
	s.Save(b)

	list := s.Load()
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID, "most recently saved first")

	// Re-saving a moves it back to the front.
	list = s.Save(a)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
}

func TestDisplayDate(t *testing.T) {
	now := time.Date(2026, time.March, 14, 18, 30, 0, 0, time.UTC)

	assert.Equal(t, "09:15", DisplayDate(time.Date(2026, time.March, 14, 9, 15, 0, 0, time.UTC), now))
	assert.Equal(t, "Yesterday", DisplayDate(time.Date(2026, time.March, 13, 23, 0, 0, 0, time.UTC), now))
	assert.Equal(t, "Tue", DisplayDate(time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC), now))
	assert.Equal(t, "Feb 1", DisplayDate(time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC), now))
}

func TestDisplayDateGroupsByCalendarDay(t *testing.T) {
	// Shortly after midnight, six-going-on-seven calendar days back must not
	// depend on the clock time of either endpoint.
	now := time.Date(2026, time.March, 14, 0, 30, 0, 0, time.UTC)

	assert.Equal(t, "Sun", DisplayDate(time.Date(2026, time.March, 8, 23, 50, 0, 0, time.UTC), now),
		"six calendar days back stays a weekday")
	assert.Equal(t, "Mar 7", DisplayDate(time.Date(2026, time.March, 7, 23, 50, 0, 0, time.UTC), now),
		"seven calendar days back is a short date even when less than 7*24h elapsed")
	assert.Equal(t, "Yesterday", DisplayDate(time.Date(2026, time.March, 13, 0, 10, 0, 0, time.UTC), now))
}
