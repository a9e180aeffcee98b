// Package tts synthesizes short spoken replies for the chat surface.
package tts

import (
	"context"
	"encoding/base64"
	"errors"

	"google.golang.org/genai"
)

// SampleRate is the PCM16 output rate of the speech models.
const SampleRate = 24000

// Provider turns text into base64 PCM16 mono audio at SampleRate.
type Provider interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// Gemini synthesizes speech with a Gemini TTS model.
type Gemini struct {
	c     *genai.Client
	model string
	voice string
}

func NewGemini(cl *genai.Client, model, voice string) *Gemini {
	return &Gemini{c: cl, model: model, voice: voice}
}

var _ Provider = (*Gemini)(nil)

func (g *Gemini) Synthesize(ctx context.Context, text string) (string, error) {
	if g == nil || g.c == nil {
		return "", errors.New("tts: not configured")
	}
	if text == "" {
		return "", errors.New("tts: empty text")
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: g.voice},
			},
		},
	}

	resp, err := g.c.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: text}}}}, cfg)
	if err != nil {
		return "", err
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && len(p.InlineData.Data) > 0 {
				return base64.StdEncoding.EncodeToString(p.InlineData.Data), nil
			}
		}
	}
	return "", errors.New("tts: no audio in response")
}
