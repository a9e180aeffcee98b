package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nirmanlabs/apis-assistant/internal/core/tts"
	"github.com/nirmanlabs/apis-assistant/pkg/types"
)

// Completer produces the assistant's reply to one user message.
type Completer interface {
	GenerateReply(ctx context.Context, history []types.Message, message string, mode types.ResponseMode) string
}

type ChatHandler struct {
	Completer Completer
	Speech    tts.Provider
}

func NewChatHandler(completer Completer, speech tts.Provider) *ChatHandler {
	return &ChatHandler{Completer: completer, Speech: speech}
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req types.ChatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if req.Mode == "" {
		req.Mode = types.ModeFast
	}

	resp := types.ChatResp{
		Reply: h.Completer.GenerateReply(c.Request.Context(), req.History, req.Message, req.Mode),
	}

	// Speech is best-effort: a TTS failure never loses the text reply.
	if req.Speak && h.Speech != nil {
		if audio, err := h.Speech.Synthesize(c.Request.Context(), resp.Reply); err == nil {
			resp.Audio = audio
			resp.SampleRate = tts.SampleRate
		}
	}

	c.JSON(http.StatusOK, resp)
}
