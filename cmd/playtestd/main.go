// Command playtestd serves simulation runs and stored results over HTTP.
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

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/api"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/config"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/engine"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/llm"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/narration"
)

const shutdownTimeout = 10 * time.Second

func main() {
	addr := flag.String("addr", "", "address to listen on (overrides PLAYTEST_HTTP_ADDR)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.HTTPAddr = *addr
	}
	logger := config.Logger(cfg.LogLevel, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load rules")
	}
	cat, err := cfg.Catalog()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load catalog")
	}
	composer, err := narration.NewComposer(nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to parse prompt templates")
	}
	client, err := llm.New(ctx, cfg.LLMOptions())
	if err != nil {
		logger.Fatal().Err(err).Str("provider", cfg.Provider).Msg("Failed to create text-generation client")
	}
	defer llm.Close(client)

	st, err := cfg.OpenStore()
	if err != nil {
		logger.Fatal().Err(err).Str("store", cfg.StoreDriver).Msg("Failed to open store")
	}
	defer st.Close()

	eng := engine.New(client, cat, composer, logger)

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.NewHandler(eng, st, rules, logger).Router(),
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Str("provider", cfg.Provider).Str("store", cfg.StoreDriver).Msg("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("Server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
