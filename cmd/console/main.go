package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Totarae/BatchConsole/internal/backend"
	"github.com/Totarae/BatchConsole/internal/config"
	"github.com/Totarae/BatchConsole/internal/console"
	"github.com/Totarae/BatchConsole/internal/handlers"
	"github.com/Totarae/BatchConsole/internal/router"
	"github.com/Totarae/BatchConsole/internal/session"
	"github.com/Totarae/BatchConsole/internal/templates"
)

const (
	sessionIdle   = 12 * time.Hour
	pruneInterval = 10 * time.Minute
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Инициализация конфигурации
	cfg, err := config.NewConfig(logger)
	if err != nil {
		logger.Fatal("Ошибка конфигурации", zap.Error(err))
	}

	secret := cfg.SessionSecret
	if secret == "" {
		secret = uuid.NewString()
		logger.Warn("SESSION_SECRET не задан, сессии не переживут перезапуск")
	}

	renderer, err := templates.New()
	if err != nil {
		logger.Fatal("Ошибка разбора шаблонов", zap.Error(err))
	}

	media, err := handlers.MediaProxy(cfg.BackendURL, logger)
	if err != nil {
		logger.Fatal("Ошибка настройки прокси изображений", zap.Error(err))
	}

	client := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout, logger)
	ctrl := console.NewController(client, logger)
	handler := handlers.NewHandler(ctrl, renderer, logger)

	r := router.NewRouter(handler, session.New(secret), media, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(pruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := ctrl.Prune(sessionIdle); n > 0 {
					logger.Debug("Удалены неактивные сессии", zap.Int("count", n))
				}
			}
		}
	}()

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Ошибка остановки сервера", zap.Error(err))
		}
	}()

	logger.Info("Консоль запущена", zap.String("address", cfg.ServerAddress), zap.String("backend", cfg.BackendURL))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Ошибка при запуске сервера", zap.Error(err))
	}
}
