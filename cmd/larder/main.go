package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"larder/internal/auth"
	"larder/internal/config"
	"larder/internal/database"
	"larder/internal/logging"
	"larder/internal/server"
	"larder/internal/store"
	"larder/internal/supabase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "larder: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel)

	gate, err := auth.NewGate(cfg.Password, cfg.PasswordHash)
	if err != nil {
		logger.Error("configure access gate", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Inventory lives either in the local database or in a hosted Supabase
	// table; sessions always stay local.
	var inv store.Inventory = store.NewInventoryStore(db)
	if cfg.Supabase.Enabled() {
		inv = supabase.New(cfg.Supabase.URL, cfg.Supabase.Key, cfg.Supabase.Table)
		logger.Info("using hosted inventory store", "url", cfg.Supabase.URL, "table", cfg.Supabase.Table)
	}

	srv := server.New(db, inv, gate, logger)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Purge expired sessions hourly.
	stopCleanup := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := srv.SessionStore().DeleteExpired(); err != nil {
					logger.Warn("session cleanup", "error", err)
				} else if n > 0 {
					logger.Info("session cleanup", "deleted", n)
				}
			case <-stopCleanup:
				return
			}
		}
	}()

	go func() {
		logger.Info("larder running", "addr", "http://localhost:"+cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	close(stopCleanup)

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
