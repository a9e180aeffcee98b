// Package gemini wraps the Gemini API for chat completions. Every failure
// maps to a user-facing fallback string so the widget always has something to
// render.
package gemini

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/nirmanlabs/apis-assistant/pkg/types"
)

// Fallback replies shown when the model cannot answer. These are rendered
// verbatim in the widget, so wording changes are user-visible.
const (
	fallbackNotConfigured = "Gemini is not configured. Please add your Gemini API key to use this feature."
	fallbackAuth          = "I'm currently experiencing a configuration issue (Invalid API Key). Please contact the school administrator."
	fallbackRateLimited   = "I'm receiving a high volume of requests right now. Please wait a moment and try again."
	fallbackNetwork       = "I'm having trouble connecting to the internet. Please check your network connection."
	fallbackUnknown       = "I apologize, but I encountered an unexpected error. Please try asking your question again in a moment."
	fallbackEmpty         = "I apologize, but I couldn't generate a proper response at this time. Please try asking again."
)

type Client struct {
	c           *genai.Client
	fastModel   string
	deepModel   string
	instruction string
	log         *slog.Logger
}

// NewAPIClient builds the underlying genai client. Shared by the completion
// and TTS layers.
func NewAPIClient(apiKey string) (*genai.Client, error) {
	tr := &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		TLSClientConfig:   &tls.Config{MinVersion: tls.VersionTLS12},
		ForceAttemptHTTP2: false,
		MaxIdleConns:      100,
		IdleConnTimeout:   90 * time.Second,
	}
	hc := &http.Client{Transport: tr, Timeout: 30 * time.Second}
	reqTimeout := 15 * time.Second
	return genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: hc,
		HTTPOptions: genai.HTTPOptions{
			APIVersion: "v1",
			Timeout:    &reqTimeout,
		},
	})
}

// New wraps an API client for chat completion. cl may be nil when no API key
// is configured; the client then answers every request with the
// not-configured fallback.
func New(cl *genai.Client, fastModel, deepModel, instruction string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		c:           cl,
		fastModel:   fastModel,
		deepModel:   deepModel,
		instruction: instruction,
		log:         log,
	}
}

// GenerateReply answers one user message given the prior conversation. It
// never returns an error: failures degrade to a fallback string.
func (g *Client) GenerateReply(ctx context.Context, history []types.Message, message string, mode types.ResponseMode) string {
	if g == nil || g.c == nil {
		return fallbackNotConfigured
	}

	model := g.fastModel
	if mode == types.ModeDeep {
		model = g.deepModel
	}

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		if m.Text == "" {
			continue
		}
		contents = append(contents, &genai.Content{
			Role:  string(m.Role),
			Parts: []*genai.Part{{Text: m.Text}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  string(types.RoleUser),
		Parts: []*genai.Part{{Text: message}},
	})

	temp := float32(0.7)
	cfg := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if g.instruction != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: g.instruction}},
		}
	}

	text, err := g.callOnce(ctx, model, contents, cfg)
	if err != nil {
		g.log.Warn("chat completion failed", "model", model, "err", err)
		return fallbackFor(err)
	}
	if text == "" {
		return fallbackEmpty
	}
	return text
}

func (g *Client) callOnce(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	var lastErr error
	for i := 0; i < 3; i++ {
		resp, err := g.c.Models.GenerateContent(ctx, model, contents, cfg)
		if err != nil {
			lastErr = err
			if retriable(err) {
				time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
				continue
			}
			return "", err
		}
		if t := resp.Text(); t != "" {
			return t, nil
		}
		lastErr = errors.New("empty response")
		time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
	}
	return "", lastErr
}

func retriable(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "unexpected EOF") ||
		strings.Contains(s, "timeout") ||
		strings.Contains(s, "RST_STREAM") ||
		strings.Contains(s, "connection reset")
}

// fallbackFor classifies an API error into the reply shown to the user.
func fallbackFor(err error) string {
	if err == nil {
		return fallbackUnknown
	}
	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "api key") ||
		strings.Contains(s, "permission_denied") ||
		strings.Contains(s, "unauthorized") ||
		strings.Contains(s, "403") ||
		strings.Contains(s, "401"):
		return fallbackAuth
	case strings.Contains(s, "429") ||
		strings.Contains(s, "quota") ||
		strings.Contains(s, "rate"):
		return fallbackRateLimited
	case strings.Contains(s, "network") ||
		strings.Contains(s, "connection") ||
		strings.Contains(s, "dial") ||
		strings.Contains(s, "timeout") ||
		strings.Contains(s, "eof"):
		return fallbackNetwork
	default:
		return fallbackUnknown
	}
}
