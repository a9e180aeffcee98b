// Package audio provides the PCM codec shared by capture encoding and
// playback decoding, and the platform interfaces for audio I/O.
package audio

import (
	"math"
	"time"
)

const (
	// CaptureRate is the microphone sample rate the remote model expects.
	CaptureRate = 16000

	// PlaybackRate is the sample rate of all inbound audio (live playback
	// and single-shot TTS alike).
	PlaybackRate = 24000

	// CaptureFrameSamples is the capture buffer size: 4096 samples at
	// 16 kHz is a ~250 ms cadence.
	CaptureFrameSamples = 4096
)

// EncodePCM16 converts float samples in [-1, 1] to little-endian signed
// 16-bit PCM. Samples are clamped before scaling; negative values scale by
// 32768 and non-negative by 32767 so both ends of the int16 range are
// reachable without wraparound.
func EncodePCM16(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		var v int16
		if s < 0 {
			v = int16(s * 32768)
		} else {
			v = int16(s * 32767)
		}
		out[i*2] = byte(v)
		out[i*2+1] = byte(v >> 8)
	}
	return out
}

// DecodePCM16 converts little-endian signed 16-bit PCM bytes to float
// samples. A trailing unpaired byte is dropped.
func DecodePCM16(data []byte) []float32 {
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}
	out := make([]float32, len(data)/2)
	for i := range out {
		v := int16(data[i*2]) | int16(data[i*2+1])<<8
		out[i] = float32(v) / 32768.0
	}
	return out
}

// RMS returns the root-mean-square amplitude of a sample frame, used to
// drive the widget's level meter.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// FrameDuration returns the wall-clock duration of sampleCount samples at
// the given rate.
func FrameDuration(sampleCount, rate int) time.Duration {
	if rate <= 0 {
		return 0
	}
	return time.Duration(sampleCount) * time.Second / time.Duration(rate)
}
