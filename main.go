package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/saxenaaman628/ballot-board/config"
	"github.com/saxenaaman628/ballot-board/internal/app"
	"github.com/saxenaaman628/ballot-board/internal/logger"
	"github.com/saxenaaman628/ballot-board/internal/utils"
)

func main() {
	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	if len(os.Args) > 1 && os.Args[1] == "token" {
		if err := printToken(cfg, os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	l := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, err := app.OpenStore(ctx, cfg, l)
	if err != nil {
		l.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to open store")
	}
	defer kv.Close()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.NewRouter(cfg, kv, l, prometheus.NewRegistry()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	l.Info().Str("port", cfg.Port).Str("driver", cfg.StoreDriver).Bool("auth", cfg.AuthEnabled()).Msg("Listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error().Err(err).Msg("Server closed")
		return
	}
	l.Info().Msg("Server closed")
}

// printToken implements `ballotboard token [-sub name] [-ttl 24h]`.
func printToken(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	sub := fs.String("sub", "cli", "token subject")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	token, err := utils.GenerateJWTToken(*sub, *ttl, cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("generate token (is JWT_SECRET set?): %w", err)
	}
	fmt.Println(token)
	return nil
}
