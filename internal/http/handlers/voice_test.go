package handlers

import (
	"context"
	"encoding/base64"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"net/http/httptest"

	"github.com/nirmanlabs/apis-assistant/internal/audio"
	"github.com/nirmanlabs/apis-assistant/internal/core/live"
	"github.com/nirmanlabs/apis-assistant/pkg/ws"
)

type fakeLiveSession struct {
	mu     sync.Mutex
	events chan live.Event
	sent   []live.RealtimeMedia
	closed bool
}

func newFakeLiveSession() *fakeLiveSession {
	return &fakeLiveSession{events: make(chan live.Event, 16)}
}

func (s *fakeLiveSession) SendRealtimeInput(media live.RealtimeMedia) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, media)
	return nil
}

func (s *fakeLiveSession) Events() <-chan live.Event { return s.events }

func (s *fakeLiveSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
	return nil
}

func (s *fakeLiveSession) emit(ev live.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.events <- ev
	}
}

func (s *fakeLiveSession) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func (s *fakeLiveSession) sentAt(i int) live.RealtimeMedia {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[i]
}

type fakeLiveTransport struct {
	session *fakeLiveSession
}

func (t *fakeLiveTransport) Connect(context.Context, live.SessionConfig) (live.Session, error) {
	return t.session, nil
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame map[string]any
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

// nextFrameOfType skips unrelated frames (typically level updates) until one
// of the wanted type arrives.
func nextFrameOfType(t *testing.T, conn *websocket.Conn, typ string) map[string]any {
	t.Helper()
	for i := 0; i < 32; i++ {
		frame := readFrame(t, conn)
		if frame["type"] == typ {
			return frame
		}
	}
	t.Fatalf("no %q frame arrived", typ)
	return nil
}

func newVoiceServer(t *testing.T, sess *fakeLiveSession) *httptest.Server {
	t.Helper()
	vh := NewVoiceHandler(ws.NewHub(), &fakeLiveTransport{session: sess}, live.Config{
		Model: "live-model",
		Voice: "Puck",
	}, nil)
	r := gin.New()
	r.GET("/v1/live", vh.WS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dialVoice(t *testing.T, srv *httptest.Server, conv string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/live?conv=" + conv
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestVoiceSessionOverWebsocket(t *testing.T) {
	sess := newFakeLiveSession()
	srv := newVoiceServer(t, sess)
	conn := dialVoice(t, srv, "conv_1")

	assert.Equal(t, "hello", readFrame(t, conn)["type"])
	for _, want := range []string{"Initializing", "Connecting", "Listening"} {
		frame := nextFrameOfType(t, conn, "status")
		assert.Equal(t, want, frame["status"])
	}

	// Microphone audio goes up as realtime input.
	mic := base64.StdEncoding.EncodeToString(audio.EncodePCM16([]float32{0.25, -0.25, 0.25, -0.25}))
	require.NoError(t, conn.WriteJSON(gin.H{"type": "audio", "data": mic}))
	require.Eventually(t, func() bool { return sess.sentCount() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "audio/pcm;rate=16000", sess.sentAt(0).MIMEType)

	// Model audio comes back down as a scheduled playback chunk.
	reply := base64.StdEncoding.EncodeToString(audio.EncodePCM16(make([]float32, 240)))
	sess.emit(live.Event{AudioB64: reply})

	frame := nextFrameOfType(t, conn, "status")
	assert.Equal(t, "Speaking", frame["status"])

	frame = nextFrameOfType(t, conn, "audio")
	assert.Equal(t, float64(audio.PlaybackRate), frame["sample_rate"])
	assert.GreaterOrEqual(t, frame["start_ms"], float64(0))
	raw, err := base64.StdEncoding.DecodeString(frame["data"].(string))
	require.NoError(t, err)
	assert.Len(t, audio.DecodePCM16(raw), 240)
}

func TestVoiceRejectsDuplicateConversation(t *testing.T) {
	sess := newFakeLiveSession()
	srv := newVoiceServer(t, sess)

	first := dialVoice(t, srv, "conv_dup")
	assert.Equal(t, "hello", readFrame(t, first)["type"])

	second := dialVoice(t, srv, "conv_dup")
	frame := readFrame(t, second)
	assert.Equal(t, "error", frame["type"])
	assert.Equal(t, "session_exists", frame["error"])
}

func TestVoiceRequiresConversationID(t *testing.T) {
	srv := newVoiceServer(t, newFakeLiveSession())

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/live"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestVoiceStopFrameEndsSession(t *testing.T) {
	sess := newFakeLiveSession()
	srv := newVoiceServer(t, sess)
	conn := dialVoice(t, srv, "conv_stop")

	assert.Equal(t, "hello", readFrame(t, conn)["type"])
	for range 3 {
		nextFrameOfType(t, conn, "status")
	}

	require.NoError(t, conn.WriteJSON(gin.H{"type": "stop"}))
	frame := nextFrameOfType(t, conn, "status")
	assert.Equal(t, "Disconnected", frame["status"])
}
