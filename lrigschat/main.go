package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lrigschat/lrigschat/config"
	"lrigschat/lrigschat/controllers"
	"lrigschat/lrigschat/middlewares"
	"lrigschat/lrigschat/routes"
	"lrigschat/lrigschat/services/mistral"
	"lrigschat/lrigschat/sources/session"
	"lrigschat/lrigschat/utils/logging"
	"lrigschat/lrigschat/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet; a config failure has to reach stderr.
		logging.InitLogger(false)
		logging.ErrorLogger.Error("configuration error", zap.Error(err))
		os.Exit(1)
	}
	logging.InitLogger(cfg.Production())
	logging.AppLogger.Info("starting LRIGSCHAT",
		zap.String("addr", cfg.ListenAddr),
		zap.String("default_model", cfg.DefaultModel),
	)

	client, err := mistral.New(cfg.APIKey, cfg.BaseURL, cfg.DefaultModel)
	if err != nil {
		logging.ErrorLogger.Error("mistral client error", zap.Error(err))
		os.Exit(1)
	}

	sessions := session.NewManager()
	chatCtrl := controllers.NewChatController(client, cfg)
	convCtrl := controllers.NewConversationsController()
	modelsCtrl := controllers.NewModelsController(client, cfg)
	healthCtrl := controllers.NewHealthController(client)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(middlewares.SessionMiddleware(cfg.SessionSecret, sessions))

	r.Mount("/chat", routes.ChatRoutes(chatCtrl, cfg))
	r.Mount("/conversations", routes.ConversationRoutes(convCtrl))
	r.Mount("/models", routes.ModelRoutes(modelsCtrl))
	r.Mount("/healthz", routes.HealthRoutes(healthCtrl))
	r.Handle("/*", web.Handler())

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
