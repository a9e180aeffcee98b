package live

import "time"

// playbackSchedule tracks the output-clock time at which the next audio
// chunk should begin playing. Chunks of arbitrary size arriving at irregular
// intervals play back-to-back without gaps or overlaps; a chunk is never
// scheduled in the past.
//
// Only the session's event goroutine touches the schedule, so it carries no
// lock of its own; callers serialize access.
type playbackSchedule struct {
	next time.Duration
}

// Schedule returns the start time for a chunk of the given duration arriving
// when the output clock reads now, and advances the schedule past it.
func (p *playbackSchedule) Schedule(now, chunk time.Duration) time.Duration {
	start := p.next
	if start < now {
		start = now
	}
	p.next = start + chunk
	return start
}

// Reset discards any queued-but-unplayed scheduling so the next chunk starts
// immediately. Called on interruption.
func (p *playbackSchedule) Reset(now time.Duration) {
	p.next = now
}
