// Package engine is the public surface of the auto-apply subsystem. It wires
// the form filler, the approval gate and the batch orchestrator together with
// the external collaborators (job catalog, profile store, resume tailor,
// result store) and the resilience layer.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/auto-applier/internal/filler"
	"github.com/jonathan/auto-applier/internal/resilience"
	"github.com/jonathan/auto-applier/internal/types"
)

// PageFactory opens a fresh browser page for one attempt. Each attempt owns
// exactly one page; pages are never shared across attempts.
type PageFactory func(ctx context.Context) (filler.Page, error)

// Options tunes engine-level behavior. Zero values are replaced with
// defaults; ApprovalTTL < 0 disables approval expiry entirely.
type Options struct {
	// InterAttemptDelay is the pause between batch attempts. It exists to
	// avoid tripping rate limiting on target sites, not for correctness.
	InterAttemptDelay time.Duration
	// ApprovalTTL bounds how long a supervised attempt may sit unresolved
	// before its page is reclaimed. 0 means the default, negative disables.
	ApprovalTTL time.Duration
	// Retry and Breaker guard the resume-tailor dependency.
	Retry   resilience.RetryConfig
	Breaker resilience.BreakerConfig
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		InterAttemptDelay: 5 * time.Second,
		ApprovalTTL:       30 * time.Minute,
		Retry:             resilience.DefaultRetryConfig(),
		Breaker:           resilience.DefaultBreakerConfig(),
	}
}

// Dependencies are the external collaborators. Catalog and Profiles are only
// needed for the ID-resolving entry points; Tailor only for batch runs.
// A nil Results store is replaced with NoopResultStore.
type Dependencies struct {
	Catalog  JobCatalog
	Profiles ProfileStore
	Tailor   ResumeTailor
	Results  ResultStore
}

// Engine executes application attempts. Safe for concurrent use by multiple
// batch runs as long as each run gets its own pages from the factory.
type Engine struct {
	opts    Options
	filler  *filler.Filler
	newPage PageFactory
	deps    Dependencies

	validate  *validator.Validate
	breaker   *resilience.CircuitBreaker
	approvals *approvalRegistry
	logger    *zap.Logger

	janitorStop chan struct{}
	closeOnce   sync.Once
}

// New assembles an engine. The filler and page factory are required.
func New(opts Options, f *filler.Filler, newPage PageFactory, deps Dependencies, logger *zap.Logger) *Engine {
	defaults := DefaultOptions()
	if opts.InterAttemptDelay <= 0 {
		opts.InterAttemptDelay = defaults.InterAttemptDelay
	}
	if opts.ApprovalTTL == 0 {
		opts.ApprovalTTL = defaults.ApprovalTTL
	}
	if deps.Results == nil {
		deps.Results = NoopResultStore{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		opts:      opts,
		filler:    f,
		newPage:   newPage,
		deps:      deps,
		validate:  validator.New(),
		breaker:   resilience.NewCircuitBreaker("resume_tailor", opts.Breaker),
		approvals: newApprovalRegistry(opts.ApprovalTTL),
		logger:    logger,
	}
	if opts.ApprovalTTL > 0 {
		e.janitorStop = make(chan struct{})
		go e.janitor(e.janitorStop)
	}
	return e
}

// Close stops the approval janitor and reclaims any still-held pages. Safe
// to call more than once.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		if e.janitorStop != nil {
			close(e.janitorStop)
		}
		for _, entry := range e.approvals.drain() {
			e.expireHeld(context.Background(), entry)
		}
	})
}

// AutoApply runs a single attempt with an already-resolved job, profile and
// resume bundle. The returned result is non-nil whenever the attempt ran; the
// error is non-nil for invalid input, page startup failure or browser loss.
func (e *Engine) AutoApply(ctx context.Context, job types.JobTarget, profile types.CandidateProfile, bundle types.TailoredResumeBundle, supervised bool) (*types.ApplicationResult, error) {
	if err := e.validate.Struct(profile); err != nil {
		return nil, fmt.Errorf("invalid candidate profile: %w", err)
	}

	page, err := e.newPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("browser startup: %w", err)
	}

	attempt := &types.ApplicationAttempt{
		JobTarget:        job,
		CandidateProfile: profile,
		ResumeBundle:     bundle,
		Supervised:       supervised,
	}
	result, held, err := e.filler.Run(ctx, page, attempt)
	if held != nil {
		result.ApprovalHandle = e.approvals.put(held, profile.UserID, job.ID)
	}
	e.persist(ctx, profile.UserID, job.ID, result)
	return result, err
}

// ResumeApproval completes a suspended supervised attempt. Exactly one call
// is valid per handle; a second call (or an unknown/expired handle) returns
// *UnknownHandleError.
func (e *Engine) ResumeApproval(ctx context.Context, handle string, approve bool) (*types.ApplicationResult, error) {
	entry, err := e.approvals.take(handle)
	if err != nil {
		return nil, err
	}
	result, err := e.filler.Finish(ctx, entry.held, approve)
	e.persist(ctx, entry.userID, entry.jobID, result)
	return result, err
}

// fetchBundle asks the resume tailor for the per-job bundle, retried with
// backoff behind the circuit breaker.
func (e *Engine) fetchBundle(ctx context.Context, userID, jobID string) (types.TailoredResumeBundle, error) {
	if e.deps.Tailor == nil {
		return types.TailoredResumeBundle{}, errors.New("no resume tailor configured")
	}
	var bundle types.TailoredResumeBundle
	err := resilience.Retry(ctx, e.opts.Retry, func(ctx context.Context) error {
		return e.breaker.Execute(ctx, func(ctx context.Context) error {
			b, err := e.deps.Tailor.GetOrBuildResumeBundle(ctx, userID, jobID)
			if err != nil {
				return err
			}
			bundle = b
			return nil
		})
	})
	return bundle, err
}

// persist is best effort: a storage failure is logged, never surfaced into
// the attempt outcome.
func (e *Engine) persist(ctx context.Context, userID, jobID string, result *types.ApplicationResult) {
	if err := e.deps.Results.PersistApplicationResult(ctx, userID, jobID, result); err != nil {
		e.logger.Warn("result persistence failed",
			zap.String("user_id", userID), zap.String("job_id", jobID), zap.Error(err))
	}
}
