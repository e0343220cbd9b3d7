package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/auto-applier/internal/types"
)

// BatchAutoApply runs attempts for every target in input order, stopping
// once DailyLimit attempts have been made. Individual attempt failures are
// recorded and the loop continues; only browser loss or cancellation aborts
// early, and even then the partial summary collected so far is returned.
func (e *Engine) BatchAutoApply(ctx context.Context, req *types.BatchRequest) (*types.BatchSummary, error) {
	if err := e.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid batch request: %w", err)
	}

	log := e.logger.With(
		zap.String("user_id", req.CandidateProfile.UserID),
		zap.Int("targets", len(req.JobTargets)),
		zap.Int("daily_limit", req.DailyLimit),
	)
	log.Info("batch run starting")

	summary := &types.BatchSummary{}
	for i, job := range req.JobTargets {
		if err := ctx.Err(); err != nil {
			log.Warn("batch run cancelled", zap.Int("attempted", summary.Attempted))
			return summary, err
		}
		if summary.Attempted >= req.DailyLimit {
			log.Info("daily limit reached, remaining targets untouched",
				zap.Int("untouched", len(req.JobTargets)-i))
			break
		}

		result, err := e.runAttempt(ctx, req, job)
		summary.Record(result)
		if err != nil {
			log.Error("batch run aborted", zap.String("job_id", job.ID), zap.Error(err))
			return summary, err
		}

		if i < len(req.JobTargets)-1 && summary.Attempted < req.DailyLimit {
			if err := e.pause(ctx); err != nil {
				return summary, err
			}
		}
	}

	log.Info("batch run finished",
		zap.Int("attempted", summary.Attempted),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

// BatchAutoApplyForUser resolves the candidate and targets through the
// configured stores, then runs the batch.
func (e *Engine) BatchAutoApplyForUser(ctx context.Context, userID string, jobIDs []string, supervised bool, dailyLimit int) (*types.BatchSummary, error) {
	if e.deps.Profiles == nil || e.deps.Catalog == nil {
		return nil, errors.New("profile store and job catalog are required to resolve a batch by IDs")
	}

	profile, err := e.deps.Profiles.GetCandidateProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load candidate profile: %w", err)
	}

	targets := make([]types.JobTarget, 0, len(jobIDs))
	for _, jobID := range jobIDs {
		target, err := e.deps.Catalog.GetJobTarget(ctx, jobID)
		if err != nil {
			return nil, fmt.Errorf("resolve job %q: %w", jobID, err)
		}
		targets = append(targets, target)
	}

	return e.BatchAutoApply(ctx, &types.BatchRequest{
		CandidateProfile: profile,
		JobTargets:       targets,
		DailyLimit:       dailyLimit,
		Supervised:       supervised,
	})
}

// runAttempt executes one job. The result is always non-nil and already
// persisted; the error return is non-nil only when the batch must stop.
func (e *Engine) runAttempt(ctx context.Context, req *types.BatchRequest, job types.JobTarget) (*types.ApplicationResult, error) {
	userID := req.CandidateProfile.UserID

	bundle, err := e.fetchBundle(ctx, userID, job.ID)
	if err != nil {
		// The tailoring service being down fails this attempt, not the batch.
		result := types.Failed(types.ReasonDependencyFailure, err.Error(), nil)
		e.persist(ctx, userID, job.ID, result)
		return result, nil
	}

	page, err := e.newPage(ctx)
	if err != nil {
		// No page means no browser; nothing further in this run can succeed.
		result := types.Failed(types.ReasonBrowserCrashed, err.Error(), nil)
		e.persist(ctx, userID, job.ID, result)
		return result, err
	}

	attempt := &types.ApplicationAttempt{
		JobTarget:        job,
		CandidateProfile: req.CandidateProfile,
		ResumeBundle:     bundle,
		Supervised:       req.Supervised,
	}
	result, held, err := e.filler.Run(ctx, page, attempt)
	if held != nil {
		result.ApprovalHandle = e.approvals.put(held, userID, job.ID)
	}
	e.persist(ctx, userID, job.ID, result)
	return result, err
}

// pause inserts the inter-attempt delay, bailing out on cancellation.
func (e *Engine) pause(ctx context.Context) error {
	select {
	case <-time.After(e.opts.InterAttemptDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
