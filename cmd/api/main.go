package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pytake/flowengine/internal/config"
	"github.com/pytake/flowengine/internal/database"
	"github.com/pytake/flowengine/internal/flow"
	"github.com/pytake/flowengine/internal/flow/aiclient"
	"github.com/pytake/flowengine/internal/flow/store"
	"github.com/pytake/flowengine/internal/logger"
	"github.com/pytake/flowengine/internal/middleware"
	"github.com/pytake/flowengine/internal/redis"
	"github.com/pytake/flowengine/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	appLog := logger.New(cfg.LogLevel)
	defer appLog.Sync()
	appLog.Infof("starting flow engine on port %s", cfg.AppPort)

	db, err := database.Connect(cfg)
	if err != nil {
		appLog.Fatal("failed to connect to database", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		appLog.Fatal("failed to run migrations", "error", err)
	}

	rdb, err := redis.Connect(cfg)
	if err != nil {
		// Rate limiting is ambient protection, not a functional
		// requirement of the engine (§6 domain stack) — a missing
		// Redis must not keep the flow service from serving traffic.
		appLog.Warnf("redis unavailable, rate limiting disabled: %v", err)
	}

	flowStore := store.New(db, appLog)
	aiClient := aiclient.New(cfg.AIQueryURL)
	service := flow.NewService(flowStore, aiClient, appLog)

	// Eager load at process start (§7 SPEC_FULL.md supplemented
	// feature), matching the Python original's module-load-time
	// load_flow_from_db() call: critical but non-fatal on failure.
	if err := service.Reload(context.Background()); err != nil {
		appLog.Errorf("initial flow load failed, serving degraded until /reload_flow succeeds: %v", err)
	}

	reloadSched, err := scheduler.New(service, cfg.ReloadInterval, appLog)
	if err != nil {
		appLog.Fatal("invalid reload schedule", "error", err)
	}
	reloadSched.Start()
	defer reloadSched.Stop()

	handler := flow.NewHandler(service, appLog)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.SecurityHeaders(nil))
	if rdb != nil {
		router.Use(middleware.RateLimiter(rdb, cfg))
	}
	handler.RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:           fmt.Sprintf(":%s", cfg.AppPort),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   65 * time.Second, // covers the 60s AI-call budget (§5)
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("server failed", "error", err)
		}
	}()
	appLog.Infof("flow engine listening on :%s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		appLog.Fatal("forced shutdown", "error", err)
	}
	appLog.Info("exited cleanly")
}
