// Package live implements the real-time voice session: a bidirectional audio
// session with the Gemini Live API, microphone capture streaming, and
// scheduled playback of returned audio.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// RealtimeMedia is one outbound audio chunk: base64 PCM tagged with its MIME
// type and sample rate.
type RealtimeMedia struct {
	MIMEType string
	Data     string // base64-encoded PCM16
}

// Event is one inbound occurrence on a live session. Exactly one field is
// meaningful per event.
type Event struct {
	// AudioB64 is a base64 PCM16 mono 24 kHz chunk from the model turn.
	AudioB64 string

	// TurnComplete marks the end of the model's spoken turn.
	TurnComplete bool

	// Interrupted marks the user barging in mid-response.
	Interrupted bool

	// Err is a fatal transport or server error.
	Err error
}

// SessionConfig configures a live session at connect time.
type SessionConfig struct {
	Model             string
	Voice             string
	SystemInstruction string
}

// Session is an open live session.
type Session interface {
	// SendRealtimeInput delivers one captured audio chunk to the model.
	SendRealtimeInput(media RealtimeMedia) error

	// Events returns the inbound event channel. It is closed when the
	// session ends, locally or remotely.
	Events() <-chan Event

	// Close terminates the session. Idempotent.
	Close() error
}

// Transport opens live sessions against a remote conversational model.
type Transport interface {
	Connect(ctx context.Context, cfg SessionConfig) (Session, error)
}

const defaultLiveBaseURL = "wss://generativelanguage.googleapis.com/ws"

// ── Wire messages (BidiGenerateContent) ───────────────────────────────────────

type setupMessage struct {
	Setup setupConfig `json:"setup"`
}

type setupConfig struct {
	Model             string             `json:"model"`
	GenerationConfig  generationConfig   `json:"generationConfig"`
	SystemInstruction *systemInstruction `json:"systemInstruction,omitempty"`
}

type generationConfig struct {
	ResponseModalities []string      `json:"responseModalities"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type systemInstruction struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"` // base64-encoded
}

type realtimeInputMessage struct {
	RealtimeInput realtimeInput `json:"realtimeInput"`
}

type realtimeInput struct {
	MediaChunks []mediaChunk `json:"mediaChunks"`
}

type mediaChunk struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"` // base64-encoded
}

type serverMessage struct {
	SetupComplete *json.RawMessage `json:"setupComplete,omitempty"`
	ServerContent *serverContent   `json:"serverContent,omitempty"`
	Error         *serverError     `json:"error,omitempty"`
}

type serverError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}

type serverContent struct {
	ModelTurn    *modelTurn `json:"modelTurn,omitempty"`
	TurnComplete bool       `json:"turnComplete,omitempty"`
	Interrupted  bool       `json:"interrupted,omitempty"`
}

type modelTurn struct {
	Parts []part `json:"parts"`
}

// ── Gemini transport ──────────────────────────────────────────────────────────

// GeminiTransport opens live sessions against the Gemini Live websocket
// endpoint.
type GeminiTransport struct {
	apiKey  string
	baseURL string
}

// TransportOption is a functional option for configuring a GeminiTransport.
type TransportOption func(*GeminiTransport)

// WithBaseURL overrides the base websocket URL. Primarily used in tests to
// point at a local mock server.
func WithBaseURL(url string) TransportOption {
	return func(t *GeminiTransport) {
		if url != "" {
			t.baseURL = url
		}
	}
}

// NewGeminiTransport creates a transport with the given API key and options.
func NewGeminiTransport(apiKey string, opts ...TransportOption) *GeminiTransport {
	t := &GeminiTransport{apiKey: apiKey, baseURL: defaultLiveBaseURL}
	for _, o := range opts {
		o(t)
	}
	return t
}

var _ Transport = (*GeminiTransport)(nil)

// Connect dials the live endpoint, sends the setup message, and starts the
// read/write goroutines. The returned session accepts audio immediately.
func (t *GeminiTransport) Connect(ctx context.Context, cfg SessionConfig) (Session, error) {
	if t.apiKey == "" {
		return nil, errors.New("live: missing API key")
	}
	wsURL := fmt.Sprintf(
		"%s/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent?key=%s",
		t.baseURL, t.apiKey,
	)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("live: dial: %w", err)
	}

	s := &liveSession{
		conn:     conn,
		events:   make(chan Event, 64),
		sendChan: make(chan []byte, 64),
		done:     make(chan struct{}),
	}

	if err := s.sendSetup(cfg); err != nil {
		conn.Close()
		return nil, fmt.Errorf("live: setup: %w", err)
	}

	go s.readLoop()
	go s.writeLoop()

	return s, nil
}

type liveSession struct {
	conn     *websocket.Conn
	events   chan Event
	sendChan chan []byte
	done     chan struct{}

	closeOnce sync.Once
}

func (s *liveSession) sendSetup(cfg SessionConfig) error {
	msg := setupMessage{
		Setup: setupConfig{
			Model: "models/" + cfg.Model,
			GenerationConfig: generationConfig{
				ResponseModalities: []string{"AUDIO"},
			},
		},
	}
	if cfg.Voice != "" {
		msg.Setup.GenerationConfig.SpeechConfig = &speechConfig{
			VoiceConfig: voiceConfig{
				PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: cfg.Voice},
			},
		}
	}
	if cfg.SystemInstruction != "" {
		msg.Setup.SystemInstruction = &systemInstruction{
			Parts: []part{{Text: cfg.SystemInstruction}},
		}
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// readLoop reads server messages and dispatches them onto the events
// channel. It owns the channel and closes it on exit.
func (s *liveSession) readLoop() {
	defer close(s.events)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if s.isClosed() {
				return
			}
			s.emit(Event{Err: err})
			return
		}

		var msg serverMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue // skip malformed frames
		}

		if msg.Error != nil {
			text := msg.Error.Message
			if text == "" {
				text = "unknown server error"
			}
			s.emit(Event{Err: fmt.Errorf("live: %s", text)})
		}
		if sc := msg.ServerContent; sc != nil {
			if sc.ModelTurn != nil {
				for _, p := range sc.ModelTurn.Parts {
					if p.InlineData != nil && p.InlineData.Data != "" {
						if !s.emit(Event{AudioB64: p.InlineData.Data}) {
							return
						}
					}
				}
			}
			if sc.Interrupted {
				if !s.emit(Event{Interrupted: true}) {
					return
				}
			}
			if sc.TurnComplete {
				if !s.emit(Event{TurnComplete: true}) {
					return
				}
			}
		}
	}
}

func (s *liveSession) emit(ev Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}

// writeLoop owns all writes after setup, so the connection never sees
// concurrent writers.
func (s *liveSession) writeLoop() {
	for {
		select {
		case data := <-s.sendChan:
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-s.done:
			_ = s.conn.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			)
			return
		}
	}
}

// SendRealtimeInput queues one audio chunk for delivery. Returns an error if
// the session is closed.
func (s *liveSession) SendRealtimeInput(media RealtimeMedia) error {
	msg := realtimeInputMessage{
		RealtimeInput: realtimeInput{
			MediaChunks: []mediaChunk{{MIMEType: media.MIMEType, Data: media.Data}},
		},
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	select {
	case s.sendChan <- data:
		return nil
	case <-s.done:
		return errors.New("live: session closed")
	}
}

func (s *liveSession) Events() <-chan Event { return s.events }

func (s *liveSession) isClosed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Close terminates the session and closes the connection. Idempotent.
func (s *liveSession) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
	return nil
}
