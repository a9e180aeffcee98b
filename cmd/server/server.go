package main

import (
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/nirmanlabs/apis-assistant/internal/config"
	h "github.com/nirmanlabs/apis-assistant/internal/http"
	"github.com/nirmanlabs/apis-assistant/internal/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := logging.New(cfg.LogFile)
	slog.SetDefault(logger)

	r := h.NewRouter(cfg, logger)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
