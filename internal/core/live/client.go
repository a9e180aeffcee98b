package live

import (
	"context"
	"encoding/base64"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/nirmanlabs/apis-assistant/internal/audio"
)

const captureMIMEType = "audio/pcm;rate=16000"

// sendQueueSize bounds the outbound audio backlog: 64 frames at the ~250 ms
// capture cadence is roughly 16 seconds of audio. On overflow the oldest
// frame is dropped so the stream stays closest to real time.
const sendQueueSize = 64

// Callbacks are the observer functions a session reports through. Nil
// callbacks are replaced with no-ops.
type Callbacks struct {
	// OnStatus receives every status transition.
	OnStatus func(Status)

	// OnAudioLevel receives the RMS amplitude of each capture frame,
	// roughly every 250 ms while capturing.
	OnAudioLevel func(float64)
}

// Config configures a voice session client.
type Config struct {
	Model             string
	Voice             string
	SystemInstruction string
}

// Client manages one live, bidirectional voice conversation: it captures
// microphone audio, streams it to the remote session, schedules returned
// audio for gapless playback, and reports coarse status to the UI.
//
// Nothing on the voice path returns an error past a public method boundary;
// all failure is communicated through the status callback.
type Client struct {
	cfg       Config
	transport Transport
	platform  audio.Platform
	cb        Callbacks
	log       *slog.Logger

	mu       sync.Mutex
	active   bool
	capture  audio.CaptureStream
	playback audio.PlaybackStream
	session  Session
	sendQ    chan RealtimeMedia
	done     chan struct{}
	sched    playbackSchedule

	dropped atomic.Int64
}

// New creates an idle client. No resources are acquired until Connect.
func New(cfg Config, transport Transport, platform audio.Platform, cb Callbacks, log *slog.Logger) *Client {
	if cb.OnStatus == nil {
		cb.OnStatus = func(Status) {}
	}
	if cb.OnAudioLevel == nil {
		cb.OnAudioLevel = func(float64) {}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		cfg:       cfg,
		transport: transport,
		platform:  platform,
		cb:        cb,
		log:       log,
	}
}

// Connect opens the session: microphone, playback path, then the remote
// session. A no-op if already active. Failures surface as the
// "Connection Failed" status, not a return value, since the UI invokes this
// fire-and-forget.
func (c *Client) Connect(ctx context.Context) {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return
	}
	c.active = true
	c.mu.Unlock()

	c.cb.OnStatus(StatusConnecting)

	capture, err := c.platform.OpenCapture(ctx)
	if err != nil {
		c.log.Warn("microphone unavailable", "err", err)
		c.teardown(StatusConnectionFailed)
		return
	}
	if !c.adopt(func() { c.capture = capture }) {
		_ = capture.Close()
		return
	}

	playback, err := c.platform.OpenPlayback(ctx)
	if err != nil {
		c.log.Warn("audio output unavailable", "err", err)
		c.teardown(StatusConnectionFailed)
		return
	}
	if !c.adopt(func() { c.playback = playback }) {
		_ = playback.Close()
		return
	}

	session, err := c.transport.Connect(ctx, SessionConfig{
		Model:             c.cfg.Model,
		Voice:             c.cfg.Voice,
		SystemInstruction: c.cfg.SystemInstruction,
	})
	if err != nil {
		c.log.Warn("live session connect failed", "err", err)
		c.teardown(StatusConnectionFailed)
		return
	}

	sendQ := make(chan RealtimeMedia, sendQueueSize)
	done := make(chan struct{})
	if !c.adopt(func() {
		c.session = session
		c.sendQ = sendQ
		c.done = done
		c.sched.Reset(playback.Now())
	}) {
		_ = session.Close()
		return
	}

	c.cb.OnStatus(StatusListening)

	go c.capturePump(capture, sendQ)
	go c.sendPump(session, sendQ, done)
	go c.eventLoop(session, playback)
}

// adopt installs a freshly-acquired resource unless a concurrent Disconnect
// already tore the session down, in which case the caller must release the
// resource itself and abandon the connect.
func (c *Client) adopt(install func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return false
	}
	install()
	return true
}

// Disconnect tears the session down. Safe to call multiple times and from
// any state, including while a Connect is still acquiring resources: the
// in-flight Connect notices the teardown and releases whatever it acquires
// afterwards without emitting further status.
func (c *Client) Disconnect() {
	if !c.teardown(StatusDisconnected) {
		// Already idle; still confirm the terminal state to the caller.
		c.cb.OnStatus(StatusDisconnected)
	}
}

// Active reports whether a session is live.
func (c *Client) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// capturePump encodes and queues every capture frame. It must do nothing
// once the session is inactive, so teardown races never push audio into a
// closed session.
func (c *Client) capturePump(capture audio.CaptureStream, sendQ chan RealtimeMedia) {
	for frame := range capture.Frames() {
		if !c.Active() {
			return
		}

		c.cb.OnAudioLevel(audio.RMS(frame))

		media := RealtimeMedia{
			MIMEType: captureMIMEType,
			Data:     base64.StdEncoding.EncodeToString(audio.EncodePCM16(frame)),
		}
		select {
		case sendQ <- media:
		default:
			// Queue full: drop the oldest frame to keep the stream
			// near real time, then retry once.
			select {
			case <-sendQ:
				c.dropped.Add(1)
			default:
			}
			select {
			case sendQ <- media:
			default:
				c.dropped.Add(1)
			}
		}
	}
}

func (c *Client) sendPump(session Session, sendQ chan RealtimeMedia, done chan struct{}) {
	for {
		select {
		case media := <-sendQ:
			if err := session.SendRealtimeInput(media); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (c *Client) eventLoop(session Session, playback audio.PlaybackStream) {
	for ev := range session.Events() {
		if !c.Active() {
			return
		}
		switch {
		case ev.Err != nil:
			c.log.Error("live session error", "err", ev.Err)
			c.teardown(StatusError)
			return
		case ev.AudioB64 != "":
			c.cb.OnStatus(StatusSpeaking)
			c.queueAudio(playback, ev.AudioB64)
		case ev.Interrupted:
			c.cb.OnStatus(StatusListening)
			c.mu.Lock()
			c.sched.Reset(playback.Now())
			c.mu.Unlock()
		case ev.TurnComplete:
			c.cb.OnStatus(StatusListening)
		}
	}

	// The remote side closed the session; a no-op if teardown already ran.
	c.teardown(StatusDisconnected)
}

// queueAudio decodes one inbound chunk and schedules it at
// max(nextStartTime, now) on the output clock, then advances the schedule by
// the chunk's duration.
func (c *Client) queueAudio(playback audio.PlaybackStream, b64 string) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		c.log.Warn("discarding undecodable audio chunk", "err", err)
		return
	}
	samples := audio.DecodePCM16(raw)
	if len(samples) == 0 {
		return
	}

	dur := audio.FrameDuration(len(samples), audio.PlaybackRate)
	c.mu.Lock()
	start := c.sched.Schedule(playback.Now(), dur)
	c.mu.Unlock()

	if err := playback.ScheduleAt(samples, start); err != nil {
		c.log.Warn("playback scheduling failed", "err", err)
	}
}

// teardown releases everything best-effort and reports the terminal status.
// Release order is load-bearing: capture (processing stops before the device
// is released) → playback → remote session, so the session can never push
// final data into an already-torn-down audio path. Each step swallows its
// own failure. Tolerates partially-initialized state.
//
// The terminal status is emitted only when this call actually deactivated
// the session, so racing teardowns (user disconnect vs. a failing connect)
// produce exactly one terminal status. Returns whether it deactivated.
func (c *Client) teardown(terminal Status) bool {
	c.mu.Lock()
	wasActive := c.active
	c.active = false
	capture, playback, session := c.capture, c.playback, c.session
	done := c.done
	c.capture, c.playback, c.session = nil, nil, nil
	c.sendQ, c.done = nil, nil
	c.mu.Unlock()

	if done != nil {
		close(done)
	}
	if capture != nil {
		_ = capture.Close()
	}
	if playback != nil {
		_ = playback.Close()
	}
	if session != nil {
		_ = session.Close()
	}

	if n := c.dropped.Swap(0); n > 0 {
		c.log.Warn("dropped outbound audio frames", "count", n)
	}

	if wasActive {
		c.cb.OnStatus(terminal)
	}
	return wasActive
}
