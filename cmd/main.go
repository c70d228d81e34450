package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"

	"github.com/hireloop/evalcore/internal/adapters/assistant"
	"github.com/hireloop/evalcore/internal/adapters/http/api"
	"github.com/hireloop/evalcore/internal/adapters/logstore"
	"github.com/hireloop/evalcore/internal/app"
	"github.com/hireloop/evalcore/internal/config"
	"github.com/hireloop/evalcore/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 30 * time.Second
	writeTimeout      = 120 * time.Second // evaluation runs scan the full candidate history
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Optional .env for local development; ignored when absent.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		os.Stderr.WriteString("failed to build log store: " + err.Error() + "\n")
		return
	}
	invoker, err := buildInvoker(ctx, cfg, log)
	if err != nil {
		os.Stderr.WriteString("failed to build assistant: " + err.Error() + "\n")
		return
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithStore(store),
		app.WithInvoker(invoker),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc, cfg.MaxLeaderboardLimit)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(context.Background(), "HTTP server shutdown failed", logger.Error(err))
	}
}

// buildStore selects the log store backend from configuration.
func buildStore(ctx context.Context, cfg *config.Config) (logstore.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return logstore.NewMemoryStore(), nil
	default:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, err
		}
		return logstore.NewS3Store(s3.NewFromConfig(awsCfg), cfg.LogBucket), nil
	}
}

// buildInvoker selects the assistant backend. Without an API key the
// static offline assistant serves canned suggestions.
func buildInvoker(ctx context.Context, cfg *config.Config, log logger.Logger) (assistant.Invoker, error) {
	if cfg.AssistantAPIKey == "" {
		log.Warn(ctx, "no assistant API key configured; using static assistant")
		return assistant.NewStaticInvoker(), nil
	}
	return assistant.NewGeminiInvoker(ctx, cfg.AssistantAPIKey,
		assistant.WithModel(cfg.AssistantModel),
		assistant.WithMaxRetries(cfg.AssistantMaxRetries),
	)
}
