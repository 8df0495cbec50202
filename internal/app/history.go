package app

import (
	"context"
	"errors"
	"time"

	"word-styler/internal/history"
	"word-styler/internal/logging"
)

// openHistory connects to the run ledger. It returns nil when history is
// disabled or the database stays unreachable; runs never fail because of it.
func openHistory(ctx context.Context, dsn string, logger *logging.Logger) *history.Store {
	store, err := history.Open(dsn)
	if errors.Is(err, history.ErrDisabled) {
		return nil
	}
	if err != nil {
		logger.Emit(logging.Event{Event: "history_failed", Level: "warn", Error: err.Error()})
		return nil
	}
	err = withExponentialBackoff(ctx, retryOptions{
		MaxRetries: 3,
		BaseDelay:  300 * time.Millisecond,
		MaxDelay:   3 * time.Second,
		Jitter:     0.2,
		OnRetry: func(attempt int, wait time.Duration, err error) {
			logger.Emit(logging.Event{Event: "retry_backoff", Level: "warn", Attempt: attempt, WaitMS: wait.Milliseconds(), Error: err.Error()})
		},
	}, func(int) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			return err
		}
		return store.EnsureSchema(pingCtx)
	})
	if err != nil {
		_ = store.Close()
		logger.Emit(logging.Event{Event: "history_failed", Level: "warn", Error: err.Error()})
		return nil
	}
	return store
}

func historyRun(doc DocumentResult, provider, model string) history.Run {
	r := history.Run{
		Book:       doc.Book,
		Input:      doc.Input,
		Provider:   provider,
		Model:      model,
		Status:     "ok",
		Total:      doc.Stats.TotalParagraphs,
		Marked:     doc.Stats.Marked,
		Unmarked:   doc.Stats.Unmarked,
		APICalls:   doc.Stats.APICalls,
		CostUSD:    doc.Stats.EstimatedCostUSD,
		DurationMS: doc.DurationMS,
		OutputDir:  doc.OutputDir,
	}
	if doc.Err != nil {
		r.Status = "failed"
		r.Stage = string(doc.Err.Stage)
		r.Error = doc.Err.Err.Error()
	}
	return r
}

func recordHistory(ctx context.Context, store *history.Store, run history.Run, logger *logging.Logger) {
	if store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := store.Record(ctx, run); err != nil {
		logger.Emit(logging.Event{Event: "history_failed", Level: "warn", Input: run.Input, Error: err.Error()})
		return
	}
	logger.Emit(logging.Event{Event: "history_saved", Input: run.Input})
}
