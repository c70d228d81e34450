package seedlogs

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/go-resty/resty/v2"

	"github.com/hireloop/evalcore/internal/domain/model"
	"github.com/hireloop/evalcore/pkg/logger"
)

const seedRandomSeed = 42 // deterministic sessions across runs

// Run executes the full seed: assist and outcome calls for every
// candidate, then an evaluation per candidate, printing a short report.
func Run(ctx context.Context, cfg *Config) error {
	log := logger.Named("seedlogs")
	rng := rand.New(rand.NewSource(seedRandomSeed)) //nolint:gosec // reproducible seeding, not crypto

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	log.Info(ctx, "seeding candidate sessions",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("candidates", cfg.Candidates),
		logger.Int("sessions", cfg.SessionsPerCandidate),
	)

	for i := 0; i < cfg.Candidates; i++ {
		candidate := fmt.Sprintf("seed-candidate-%03d", i)
		taskID := fmt.Sprintf("task-%d", i%3)
		archetype := i % archetypeCount

		for _, s := range generateSessions(rng, archetype, cfg.SessionsPerCandidate) {
			requestID, err := postInteract(ctx, client, candidate, taskID, s)
			if err != nil {
				return fmt.Errorf("interact for %s: %w", candidate, err)
			}
			if err := postOutcome(ctx, client, candidate, taskID, requestID, s); err != nil {
				return fmt.Errorf("outcome for %s: %w", candidate, err)
			}
			if cfg.Verbose {
				log.Info(ctx, "session seeded",
					logger.String("candidateId", candidate),
					logger.String("requestId", requestID),
				)
			}
		}

		evaluation, err := postEvaluate(ctx, client, candidate)
		if err != nil {
			return fmt.Errorf("evaluate %s: %w", candidate, err)
		}
		log.Info(ctx, "candidate evaluated",
			logger.String("candidateId", candidate),
			logger.String("recommendation", string(evaluation.Recommendation)),
			logger.Float64("problemSolver", evaluation.Scores.ProblemSolver),
			logger.Float64("engineer", evaluation.Scores.Engineer),
		)
	}
	return nil
}

type interactReply struct {
	RequestID string `json:"requestId"`
}

func postInteract(ctx context.Context, client *resty.Client, candidate, taskID string, s session) (string, error) {
	var reply interactReply
	resp, err := client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"candidateToken": candidate,
			"taskId":         taskID,
			"userMessage":    s.UserMessage,
			"context":        s.Context,
		}).
		SetResult(&reply).
		Post("/interact")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("unexpected status %s: %s", resp.Status(), resp.String())
	}
	return reply.RequestID, nil
}

func postOutcome(ctx context.Context, client *resty.Client, candidate, taskID, requestID string, s session) error {
	resp, err := client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"candidateToken": candidate,
			"taskId":         taskID,
			"requestId":      requestID,
			"decisions":      s.Decisions,
			"metrics":        s.Metrics,
		}).
		Post("/outcome")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("unexpected status %s: %s", resp.Status(), resp.String())
	}
	return nil
}

type evaluateReply struct {
	Recommendation model.Recommendation  `json:"recommendation"`
	Scores         model.CompositeScores `json:"scores"`
}

func postEvaluate(ctx context.Context, client *resty.Client, candidate string) (*evaluateReply, error) {
	var reply evaluateReply
	resp, err := client.R().
		SetContext(ctx).
		SetBody(map[string]any{"candidateToken": candidate}).
		SetResult(&reply).
		Post("/evaluate")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("unexpected status %s: %s", resp.Status(), resp.String())
	}
	return &reply, nil
}
