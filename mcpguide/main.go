package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mcpguide/mcpguide/config"
	"mcpguide/mcpguide/controllers"
	"mcpguide/mcpguide/routes"
	"mcpguide/mcpguide/services/llm"
	"mcpguide/mcpguide/site"
	"mcpguide/mcpguide/utils/logging"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	if err := logging.InitLogger(cfg.LogDir); err != nil {
		panic(err)
	}
	defer logging.Sync()

	configured := cfg.HasProviderKey()
	if !configured {
		logging.AppLogger.Warn("OPENAI_API_KEY is not set; chat requests will fail until it is configured")
	}

	gpt := llm.NewGPTClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, nil)
	chatCtrl := controllers.NewChatController(gpt, configured)
	healthCtrl := controllers.NewHealthController(configured)

	renderer, err := site.NewRenderer()
	if err != nil {
		logging.ErrorLogger.Error("template parse error", zap.Error(err))
		os.Exit(1)
	}
	siteCtrl := controllers.NewSiteController(renderer)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.NewRouter(cfg, chatCtrl, siteCtrl, healthCtrl),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
		return
	}
	logging.AppLogger.Info("server shutdown complete")
}
