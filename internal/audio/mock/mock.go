// Package mock provides in-memory implementations of the audio platform
// interfaces for unit tests. Set the exported fields before use; inspect the
// call-count and recording fields after.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/nirmanlabs/apis-assistant/internal/audio"
)

// Platform is a mock implementation of [audio.Platform].
type Platform struct {
	mu sync.Mutex

	// Capture is returned by OpenCapture. If nil, a fresh CaptureStream
	// with a buffered channel is created on first call.
	Capture *CaptureStream

	// CaptureErr is returned by OpenCapture, simulating a denied
	// microphone permission.
	CaptureErr error

	// Playback is returned by OpenPlayback. If nil, a fresh
	// PlaybackStream is created on first call.
	Playback *PlaybackStream

	// PlaybackErr is returned by OpenPlayback.
	PlaybackErr error

	CallCountOpenCapture  int
	CallCountOpenPlayback int
}

func (p *Platform) OpenCapture(_ context.Context) (audio.CaptureStream, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.CallCountOpenCapture++
	if p.CaptureErr != nil {
		return nil, p.CaptureErr
	}
	if p.Capture == nil {
		p.Capture = NewCaptureStream(8)
	}
	return p.Capture, nil
}

func (p *Platform) OpenPlayback(_ context.Context) (audio.PlaybackStream, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.CallCountOpenPlayback++
	if p.PlaybackErr != nil {
		return nil, p.PlaybackErr
	}
	if p.Playback == nil {
		p.Playback = &PlaybackStream{}
	}
	return p.Playback, nil
}

// CaptureStream is a mock implementation of [audio.CaptureStream].
type CaptureStream struct {
	mu     sync.Mutex
	ch     chan []float32
	closed bool

	CallCountClose int
}

// NewCaptureStream returns a capture stream whose Frames channel has the
// given buffer size.
func NewCaptureStream(buf int) *CaptureStream {
	return &CaptureStream{ch: make(chan []float32, buf)}
}

func (c *CaptureStream) Frames() <-chan []float32 { return c.ch }

// Push delivers a frame to the stream. Frames pushed after Close are
// silently dropped.
func (c *CaptureStream) Push(frame []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.ch <- frame
}

func (c *CaptureStream) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallCountClose++
	if !c.closed {
		c.closed = true
		close(c.ch)
	}
	return nil
}

// ScheduledChunk records one ScheduleAt invocation.
type ScheduledChunk struct {
	Samples []float32
	Start   time.Duration
}

// PlaybackStream is a mock implementation of [audio.PlaybackStream] with a
// manually advanced output clock.
type PlaybackStream struct {
	mu    sync.Mutex
	clock time.Duration

	// Scheduled records all ScheduleAt calls in order.
	Scheduled []ScheduledChunk

	// ScheduleErr is returned by ScheduleAt.
	ScheduleErr error

	CallCountClose int
}

func (p *PlaybackStream) Now() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clock
}

// SetNow advances (or rewinds) the mock output clock.
func (p *PlaybackStream) SetNow(t time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock = t
}

func (p *PlaybackStream) ScheduleAt(samples []float32, start time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ScheduleErr != nil {
		return p.ScheduleErr
	}
	p.Scheduled = append(p.Scheduled, ScheduledChunk{Samples: samples, Start: start})
	return nil
}

// LastStart returns the start time of the most recently scheduled chunk.
func (p *PlaybackStream) LastStart() (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Scheduled) == 0 {
		return 0, false
	}
	return p.Scheduled[len(p.Scheduled)-1].Start, true
}

func (p *PlaybackStream) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.CallCountClose++
	return nil
}
