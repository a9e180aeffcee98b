package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nirmanlabs/apis-assistant/internal/store"
	"github.com/nirmanlabs/apis-assistant/pkg/types"
)

type ConversationsHandler struct {
	Store *store.Store
}

func NewConversationsHandler(s *store.Store) *ConversationsHandler {
	return &ConversationsHandler{Store: s}
}

func (h *ConversationsHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, summaries(h.Store.Load()))
}

func (h *ConversationsHandler) Get(c *gin.Context) {
	id := c.Param("id")
	for _, conv := range h.Store.Load() {
		if conv.ID == id {
			c.JSON(http.StatusOK, conv)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
}

func (h *ConversationsHandler) Save(c *gin.Context) {
	var conv types.Conversation
	if err := c.ShouldBindJSON(&conv); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if conv.ID == "" {
		fresh := store.NewConversation()
		conv.ID = fresh.ID
		conv.CreatedAt = fresh.CreatedAt
		if conv.Title == "" {
			conv.Title = fresh.Title
		}
	}

	list := h.Store.Save(conv)
	c.JSON(http.StatusOK, list[0])
}

func (h *ConversationsHandler) Delete(c *gin.Context) {
	list := h.Store.Delete(c.Param("id"))
	c.JSON(http.StatusOK, summaries(list))
}

func summaries(list []types.Conversation) []types.ConversationSummary {
	now := time.Now()
	out := make([]types.ConversationSummary, 0, len(list))
	for _, conv := range list {
		out = append(out, types.ConversationSummary{
			ID:          conv.ID,
			Title:       conv.Title,
			UpdatedAt:   conv.UpdatedAt,
			DisplayDate: store.DisplayDate(conv.UpdatedAt, now),
		})
	}
	return out
}
