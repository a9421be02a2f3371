package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dualsolve/dualsolve/internal/anthropic"
	"github.com/dualsolve/dualsolve/internal/config"
	"github.com/dualsolve/dualsolve/internal/envsetup"
	"github.com/dualsolve/dualsolve/internal/google"
	"github.com/dualsolve/dualsolve/internal/llm"
	"github.com/dualsolve/dualsolve/internal/logger"
	"github.com/dualsolve/dualsolve/internal/solver"
	"github.com/dualsolve/dualsolve/internal/together"
	"github.com/dualsolve/dualsolve/internal/web"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

//go:embed all:static
var staticFiles embed.FS

const envFile = ".env"

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
	slog.Info("exiting without error")
}

func mainE() error {
	_ = godotenv.Load(envFile)

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, config.ErrUsage) {
			fmt.Println(err)
		}
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.Setup {
		done, err := envsetup.Run(envFile)
		if err != nil {
			return fmt.Errorf("running setup wizard: %w", err)
		}
		if done {
			if err := godotenv.Overload(envFile); err != nil {
				return fmt.Errorf("reloading %s: %w", envFile, err)
			}
			if cfg, err = config.Load(os.Args[1:]); err != nil {
				return fmt.Errorf("reloading config: %w", err)
			}
		}
	}

	log := logger.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llmClient, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	if !llmClient.Configured() {
		log.WarnContext(ctx, "no API key configured; completion requests will fail until one is set",
			"provider", llmClient.Provider(), "hint", "run with --setup")
	}

	svc := solver.NewService(llmClient)

	distFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("creating sub filesystem: %w", err)
	}

	router := web.NewRouter(svc, log, distFS, cfg.AllowedOrigins)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/", router.Handler())

	// WriteTimeout must outlast the LLM call so a 504 can still be written.
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Timeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.InfoContext(ctx, "starting web server", "port", cfg.Port, "provider", llmClient.Provider())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.InfoContext(ctx, "shutting down gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func newLLMClient(ctx context.Context, cfg config.Config) (llm.Client, error) {
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return anthropic.NewClient(cfg.AnthropicAPIKey, anthropic.Model(cfg.Model), cfg.Timeout), nil
	case config.ProviderGoogle:
		c, err := google.NewClient(ctx, cfg.GoogleAPIKey, google.Model(cfg.Model), cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("creating Google client: %w", err)
		}
		return c, nil
	default:
		return together.NewClient(cfg.TogetherAPIKey, cfg.TogetherAPIURL, cfg.Model, cfg.Timeout), nil
	}
}
