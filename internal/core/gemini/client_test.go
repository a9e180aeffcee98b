package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateReplyWithoutClient(t *testing.T) {
	g := New(nil, "fast", "deep", "instruction", nil)
	got := g.GenerateReply(context.Background(), nil, "hello", "")
	assert.Equal(t, fallbackNotConfigured, got)
}

func TestGenerateReplyNilReceiver(t *testing.T) {
	var g *Client
	got := g.GenerateReply(context.Background(), nil, "hello", "")
	assert.Equal(t, fallbackNotConfigured, got)
}

func TestFallbackFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"invalid key", errors.New("API key not valid. Please pass a valid API key."), fallbackAuth},
		{"permission denied", errors.New("googleapi: Error 403: PERMISSION_DENIED"), fallbackAuth},
		{"unauthorized", errors.New("401 unauthorized"), fallbackAuth},
		{"quota", errors.New("googleapi: Error 429: quota exceeded"), fallbackRateLimited},
		{"rate limited", errors.New("rate limit reached"), fallbackRateLimited},
		{"dial failure", errors.New("dial tcp: connection refused"), fallbackNetwork},
		{"timeout", errors.New("context deadline exceeded (Client.Timeout)"), fallbackNetwork},
		{"eof", errors.New("unexpected EOF"), fallbackNetwork},
		{"anything else", errors.New("internal server error 500"), fallbackUnknown},
		{"nil", nil, fallbackUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, fallbackFor(tc.err))
		})
	}
}

func TestRetriable(t *testing.T) {
	assert.True(t, retriable(errors.New("unexpected EOF")))
	assert.True(t, retriable(errors.New("stream error: stream ID 5; RST_STREAM")))
	assert.True(t, retriable(errors.New("read: connection reset by peer")))
	assert.True(t, retriable(errors.New("Client.Timeout exceeded")))
	assert.False(t, retriable(errors.New("API key not valid")))
	assert.False(t, retriable(nil))
}
