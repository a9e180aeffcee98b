package audio

import (
	"context"
	"time"
)

// Platform abstracts the audio I/O environment a voice session runs against.
// The production implementation bridges the widget's websocket; tests use the
// mock package. Implementations must be safe for concurrent use.
type Platform interface {
	// OpenCapture acquires the microphone and returns a stream of float
	// sample frames at CaptureRate. Acquisition may be denied by the
	// user/platform; denial is returned as an error.
	OpenCapture(ctx context.Context) (CaptureStream, error)

	// OpenPlayback opens the output path at PlaybackRate. The returned
	// stream's clock starts at zero when opened.
	OpenPlayback(ctx context.Context) (PlaybackStream, error)
}

// CaptureStream delivers microphone audio as frames of float samples in
// [-1, 1].
type CaptureStream interface {
	// Frames returns the channel on which capture frames arrive. The
	// channel is closed by Close.
	Frames() <-chan []float32

	// Close stops frame processing before releasing the underlying
	// device, then closes the Frames channel. Idempotent.
	Close() error
}

// PlaybackStream plays scheduled audio against a monotonic output clock.
type PlaybackStream interface {
	// Now returns the current output-clock time.
	Now() time.Duration

	// ScheduleAt schedules a chunk of PlaybackRate mono samples to begin
	// playing at start on the output clock.
	ScheduleAt(samples []float32, start time.Duration) error

	// Close releases the output path. Idempotent.
	Close() error
}
