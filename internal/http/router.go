package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"google.golang.org/genai"

	"github.com/nirmanlabs/apis-assistant/internal/assistant"
	"github.com/nirmanlabs/apis-assistant/internal/config"
	"github.com/nirmanlabs/apis-assistant/internal/core/gemini"
	"github.com/nirmanlabs/apis-assistant/internal/core/live"
	ttsprov "github.com/nirmanlabs/apis-assistant/internal/core/tts"
	"github.com/nirmanlabs/apis-assistant/internal/http/handlers"
	"github.com/nirmanlabs/apis-assistant/internal/store"
	"github.com/nirmanlabs/apis-assistant/pkg/ws"
)

func NewRouter(cfg config.Config, log *slog.Logger) *gin.Engine {
	if log == nil {
		log = slog.Default()
	}
	r := gin.Default()

	var apiClient *genai.Client
	if cfg.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY not set, running with fallback replies only")
	} else if cl, err := gemini.NewAPIClient(cfg.GeminiAPIKey); err != nil {
		log.Error("gemini client init failed", "err", err)
	} else {
		apiClient = cl
	}

	completer := gemini.New(apiClient, cfg.FastModel, cfg.DeepModel, assistant.SystemInstruction(), log)
	var speech ttsprov.Provider
	if apiClient != nil {
		speech = ttsprov.NewGemini(apiClient, cfg.TTSModel, cfg.TTSVoice)
	}

	repo := store.New(cfg.StorePath, log)
	hub := ws.NewHub()
	transport := live.NewGeminiTransport(cfg.GeminiAPIKey, live.WithBaseURL(cfg.LiveBaseURL))

	ch := handlers.NewChatHandler(completer, speech)
	th := handlers.NewTTSHandler(speech)
	cvh := handlers.NewConversationsHandler(repo)
	wh := handlers.NewWidgetHandler()
	vh := handlers.NewVoiceHandler(hub, transport, live.Config{
		Model:             cfg.LiveModel,
		Voice:             cfg.LiveVoice,
		SystemInstruction: assistant.LiveInstruction(),
	}, log)

	api := r.Group("/v1", handlers.AuthRequired(cfg.APIToken))
	api.POST("/chat", ch.Chat)
	api.POST("/tts", th.Synthesize)
	api.GET("/conversations", cvh.List)
	api.GET("/conversations/:id", cvh.Get)
	api.POST("/conversations", cvh.Save)
	api.DELETE("/conversations/:id", cvh.Delete)
	api.GET("/widget", wh.Meta)

	r.GET("/v1/live", vh.WS)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	return r
}
