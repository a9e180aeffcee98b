package types

import "time"

// Role identifies who produced a message. The assistant role serializes as
// "model" to match the Gemini content schema and previously stored history.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "model"
)

// ResponseMode selects the model size/latency tradeoff for text completion.
type ResponseMode string

const (
	ModeFast ResponseMode = "fast"
	ModeDeep ResponseMode = "deep"
)

type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ConversationSummary is the sidebar listing shape: no message bodies, plus a
// preformatted relative date for grouping.
type ConversationSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	UpdatedAt   time.Time `json:"updatedAt"`
	DisplayDate string    `json:"display_date"`
}

type ChatReq struct {
	History []Message    `json:"history"`
	Message string       `json:"message" binding:"required"`
	Mode    ResponseMode `json:"mode"`
	Speak   bool         `json:"speak"`
}

type ChatResp struct {
	Reply      string `json:"reply"`
	Audio      string `json:"audio,omitempty"`
	SampleRate int    `json:"sample_rate,omitempty"`
}

type TTSReq struct {
	Text string `json:"text" binding:"required"`
}

type TTSResp struct {
	Audio      string `json:"audio"`
	SampleRate int    `json:"sample_rate"`
}

type QuickReply struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

type WidgetMeta struct {
	Welcome      string       `json:"welcome"`
	QuickReplies []QuickReply `json:"quick_replies"`
	SchoolName   string       `json:"school_name"`
	Phones       []string     `json:"phones"`
	Website      string       `json:"website"`
}
