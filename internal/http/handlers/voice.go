package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/nirmanlabs/apis-assistant/internal/audio"
	"github.com/nirmanlabs/apis-assistant/internal/core/live"
	"github.com/nirmanlabs/apis-assistant/pkg/ws"
)

// VoiceHandler bridges the widget's websocket to a live voice session. The
// browser sends captured microphone PCM up; status, level, and scheduled
// playback audio flow back down.
type VoiceHandler struct {
	Hub       *ws.Hub
	Transport live.Transport
	Cfg       live.Config
	Log       *slog.Logger
	Upgrader  websocket.Upgrader
}

func NewVoiceHandler(hub *ws.Hub, transport live.Transport, cfg live.Config, log *slog.Logger) *VoiceHandler {
	if log == nil {
		log = slog.Default()
	}
	return &VoiceHandler{
		Hub:       hub,
		Transport: transport,
		Cfg:       cfg,
		Log:       log,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type inboundFrame struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

func (h *VoiceHandler) WS(c *gin.Context) {
	id := c.Query("conv")
	if id == "" {
		c.Status(http.StatusBadRequest)
		return
	}
	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	bridge := newBridge(conn)
	client := live.New(h.Cfg, h.Transport, bridge, live.Callbacks{
		OnStatus:     bridge.sendStatus,
		OnAudioLevel: bridge.sendLevel,
	}, h.Log)

	if !h.Hub.Add(id, client) {
		_ = bridge.writeJSON(gin.H{"type": "error", "error": "session_exists"})
		return
	}
	defer func() {
		h.Hub.Remove(id)
		client.Disconnect()
	}()

	conn.SetReadLimit(8 << 20)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	_ = bridge.writeJSON(gin.H{"type": "hello", "ts": time.Now().UnixMilli()})
	bridge.sendStatus(live.StatusInitializing)
	client.Connect(c.Request.Context())

	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		if mt != websocket.TextMessage {
			continue
		}

		var frame inboundFrame
		if json.Unmarshal(msg, &frame) != nil {
			continue
		}
		switch frame.Type {
		case "audio":
			raw, err := base64.StdEncoding.DecodeString(frame.Data)
			if err != nil {
				continue
			}
			bridge.pushCapture(audio.DecodePCM16(raw))
		case "stop":
			client.Disconnect()
			return
		}
	}
}

// wsBridge adapts one widget websocket into the capture and playback streams
// a voice session runs on. All writes go through writeMu; the read side is
// the handler's loop.
type wsBridge struct {
	conn  *websocket.Conn
	start time.Time

	writeMu sync.Mutex

	capMu     sync.Mutex
	frames    chan []float32
	capClosed bool
}

func newBridge(conn *websocket.Conn) *wsBridge {
	return &wsBridge{
		conn:   conn,
		start:  time.Now(),
		frames: make(chan []float32, 8),
	}
}

func (b *wsBridge) writeJSON(v any) error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	b.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return b.conn.WriteJSON(v)
}

func (b *wsBridge) sendStatus(s live.Status) {
	_ = b.writeJSON(gin.H{"type": "status", "status": string(s)})
}

func (b *wsBridge) sendLevel(l float64) {
	_ = b.writeJSON(gin.H{"type": "level", "level": l})
}

// pushCapture hands one decoded microphone frame to the session. Frames
// arriving faster than the session drains them are dropped.
func (b *wsBridge) pushCapture(samples []float32) {
	if len(samples) == 0 {
		return
	}
	b.capMu.Lock()
	defer b.capMu.Unlock()
	if b.capClosed {
		return
	}
	select {
	case b.frames <- samples:
	default:
	}
}

var _ audio.Platform = (*wsBridge)(nil)

func (b *wsBridge) OpenCapture(context.Context) (audio.CaptureStream, error) {
	return &bridgeCapture{b: b}, nil
}

func (b *wsBridge) OpenPlayback(context.Context) (audio.PlaybackStream, error) {
	return &bridgePlayback{b: b}, nil
}

type bridgeCapture struct {
	b *wsBridge
}

func (c *bridgeCapture) Frames() <-chan []float32 { return c.b.frames }

func (c *bridgeCapture) Close() error {
	c.b.capMu.Lock()
	defer c.b.capMu.Unlock()
	if !c.b.capClosed {
		c.b.capClosed = true
		close(c.b.frames)
	}
	return nil
}

type bridgePlayback struct {
	b *wsBridge
}

func (p *bridgePlayback) Now() time.Duration {
	return time.Since(p.b.start)
}

// ScheduleAt forwards one playback chunk to the widget, which queues it on
// its own audio clock at the given offset.
func (p *bridgePlayback) ScheduleAt(samples []float32, at time.Duration) error {
	return p.b.writeJSON(gin.H{
		"type":        "audio",
		"data":        base64.StdEncoding.EncodeToString(audio.EncodePCM16(samples)),
		"start_ms":    at.Milliseconds(),
		"sample_rate": audio.PlaybackRate,
	})
}

func (p *bridgePlayback) Close() error { return nil }
