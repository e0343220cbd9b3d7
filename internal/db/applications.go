package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/auto-applier/internal/types"
)

// BatchRun is one row of batch-level bookkeeping.
type BatchRun struct {
	ID          uuid.UUID
	UserID      string
	DailyLimit  int
	Supervised  bool
	Status      string
	Attempted   int
	Succeeded   int
	Failed      int
	StartedAt   time.Time
	CompletedAt *time.Time
}

// StartBatchRun creates a batch run record and returns its ID.
func (db *DB) StartBatchRun(ctx context.Context, userID string, dailyLimit int, supervised bool) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO batch_runs (user_id, daily_limit, supervised, status)
		 VALUES ($1, $2, $3, 'running')
		 RETURNING id`,
		userID, dailyLimit, supervised,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create batch run: %w", err)
	}
	return id, nil
}

// CompleteBatchRun records the summary counts and marks the run finished.
func (db *DB) CompleteBatchRun(ctx context.Context, runID uuid.UUID, status string, summary *types.BatchSummary) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE batch_runs
		 SET status = $1, attempted = $2, succeeded = $3, failed = $4, completed_at = NOW()
		 WHERE id = $5`,
		status, summary.Attempted, summary.Succeeded, summary.Failed, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete batch run: %w", err)
	}
	return nil
}

// PersistApplicationResult stores one attempt outcome. The filled-field audit
// trail is stored as JSON alongside the status columns.
func (db *DB) PersistApplicationResult(ctx context.Context, userID, jobID string, result *types.ApplicationResult) error {
	filledJSON, err := json.Marshal(result.FilledFields)
	if err != nil {
		return fmt.Errorf("failed to marshal filled fields: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO application_results
		 (user_id, job_id, status, confirmation_id, error_message, screenshot_ref, filled_fields)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		userID, jobID, string(result.Status), result.ConfirmationID,
		result.ErrorMessage, result.ScreenshotRef, filledJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save application result for job %s: %w", jobID, err)
	}
	return nil
}

// CountResultsSince returns how many attempts a user has made since the given
// time, for enforcing the daily cap across separate runs.
func (db *DB) CountResultsSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM application_results WHERE user_id = $1 AND created_at >= $2`,
		userID, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}
	return count, nil
}
