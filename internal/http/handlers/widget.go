package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nirmanlabs/apis-assistant/internal/assistant"
)

type WidgetHandler struct{}

func NewWidgetHandler() *WidgetHandler { return &WidgetHandler{} }

// Meta serves the static bootstrap payload the embedded widget renders before
// any conversation starts.
func (h *WidgetHandler) Meta(c *gin.Context) {
	c.JSON(http.StatusOK, assistant.WidgetMeta())
}
