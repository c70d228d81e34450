package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/hireloop/evalcore/internal/seedlogs"
	"github.com/hireloop/evalcore/pkg/logger"
)

// Default configuration constants.
const (
	defaultCandidates = 10
	defaultSessions   = 3
	defaultTimeout    = 30 * time.Second
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8080", "Base URL of the service")
		candidates = flag.Int("candidates", defaultCandidates, "Number of synthetic candidates")
		sessions   = flag.Int("sessions", defaultSessions, "Assist/outcome round trips per candidate")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose    = flag.Bool("verbose", false, "Enable per-request logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	cfg := &seedlogs.Config{
		BaseURL:              *baseURL,
		Candidates:           *candidates,
		SessionsPerCandidate: *sessions,
		Timeout:              *timeout,
		Verbose:              *verbose,
	}
	if err := seedlogs.Run(context.Background(), cfg); err != nil {
		logger.Get().Error(context.Background(), "seed run failed", logger.Error(err))
		os.Exit(1)
	}
}
