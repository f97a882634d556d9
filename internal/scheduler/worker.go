package scheduler

import (
	"context"
	"fmt"

	"wex_backend/platform/config"
	"wex_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// ClearingRunner executes a full clearing run for a need and marks the need
// cleared afterwards. Implemented by the adapters package.
type ClearingRunner interface {
	RunClearing(ctx context.Context, needID uuid.UUID) error
}

// FeatureScoringRunner evaluates a persisted match's feature coverage and
// folds the result into its composite score.
type FeatureScoringRunner interface {
	ScoreMatchFeatures(ctx context.Context, matchID uuid.UUID) error
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	clearing ClearingRunner
	scoring  FeatureScoringRunner
	log      *logger.Logger
}

func NewWorker(cfg config.RedisConfig, clearing ClearingRunner, scoring FeatureScoringRunner, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"default": 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		clearing: clearing,
		scoring:  scoring,
		log:      log,
	}

	mux.HandleFunc(TaskClearNeed, w.handleClearNeed)
	mux.HandleFunc(TaskFeatureScore, w.handleFeatureScore)

	return w, nil
}

func (w *Worker) handleClearNeed(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseClearNeedPayload(task)
	if err != nil {
		return err
	}

	needID, err := uuid.Parse(payload.NeedID)
	if err != nil {
		return err
	}

	if err := w.clearing.RunClearing(ctx, needID); err != nil {
		w.log.Error("clearing run failed", "need_id", needID, "error", err)
		return err
	}

	return nil
}

func (w *Worker) handleFeatureScore(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFeatureScorePayload(task)
	if err != nil {
		return err
	}

	matchID, err := uuid.Parse(payload.MatchID)
	if err != nil {
		return err
	}

	if err := w.scoring.ScoreMatchFeatures(ctx, matchID); err != nil {
		w.log.Error("feature scoring failed", "match_id", matchID, "error", err)
		return err
	}

	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
