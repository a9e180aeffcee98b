package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nirmanlabs/apis-assistant/internal/core/tts"
	"github.com/nirmanlabs/apis-assistant/pkg/types"
)

type TTSHandler struct {
	Provider tts.Provider
}

func NewTTSHandler(p tts.Provider) *TTSHandler {
	return &TTSHandler{Provider: p}
}

// Synthesize returns spoken audio for a text snippet. Failures return an
// empty payload rather than an error status so the widget simply skips
// playback.
func (h *TTSHandler) Synthesize(c *gin.Context) {
	var req types.TTSReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	resp := types.TTSResp{SampleRate: tts.SampleRate}
	if h.Provider != nil {
		if audio, err := h.Provider.Synthesize(c.Request.Context(), req.Text); err == nil {
			resp.Audio = audio
		}
	}
	c.JSON(http.StatusOK, resp)
}
