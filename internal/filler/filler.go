// Package filler drives a single browser session through one job
// application: navigate, detect fields, classify and inject values, then
// either submit or hand the live session to a human reviewer.
package filler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/auto-applier/internal/browser"
	"github.com/jonathan/auto-applier/internal/classify"
	"github.com/jonathan/auto-applier/internal/mapping"
	"github.com/jonathan/auto-applier/internal/types"
)

// Page is the browser surface the state machine drives. *browser.Session
// implements it; tests substitute a scripted fake.
type Page interface {
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	DetectFields(ctx context.Context) ([]types.FormField, error)
	Fill(ctx context.Context, field types.FormField, value string) error
	FindSubmit(ctx context.Context) (string, error)
	Click(ctx context.Context, sel string, settle time.Duration) error
	BodyText(ctx context.Context) (string, error)
	OuterHTML(ctx context.Context) (string, error)
	CaptureScreenshot(ctx context.Context, path string) (string, error)
	Close()
}

// State names one phase of an attempt. Transitions are linear:
// Navigating → Detecting → Filling → {AwaitingApproval | Submitting} →
// {Submitted | Failed}.
type State string

const (
	StateNavigating       State = "navigating"
	StateDetecting        State = "detecting"
	StateFilling          State = "filling"
	StateAwaitingApproval State = "awaiting_approval"
	StateSubmitting       State = "submitting"
	StateSubmitted        State = "submitted"
	StateFailed           State = "failed"
)

// Options tunes the per-attempt timeouts.
type Options struct {
	// NavigationTimeout bounds the initial page load.
	NavigationTimeout time.Duration
	// SettleTimeout is the wait after the submit click before the result
	// page is classified.
	SettleTimeout time.Duration
	// ScreenshotDir receives reviewer snapshots for supervised attempts.
	ScreenshotDir string
}

// DefaultOptions returns the timeouts the engine ships with.
func DefaultOptions() Options {
	return Options{
		NavigationTimeout: 30 * time.Second,
		SettleTimeout:     5 * time.Second,
		ScreenshotDir:     "screenshots",
	}
}

// Held is a supervised attempt frozen before submission. The page stays open
// and ownership moves to whoever holds this value; exactly one Finish call
// is expected.
type Held struct {
	Attempt       *types.ApplicationAttempt
	Page          Page
	FilledFields  []types.FilledField
	ScreenshotRef string
	CreatedAt     time.Time
}

// Filler executes application attempts. It is stateless across attempts;
// each Run owns exactly one page.
type Filler struct {
	opts    Options
	drafter *mapping.CoverLetterDrafter
	logger  *zap.Logger
}

// New creates a filler. drafter may be nil; cover letters then fall back to
// the bundle text or the generic placeholder.
func New(opts Options, drafter *mapping.CoverLetterDrafter, logger *zap.Logger) *Filler {
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = DefaultOptions().NavigationTimeout
	}
	if opts.SettleTimeout <= 0 {
		opts.SettleTimeout = DefaultOptions().SettleTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filler{opts: opts, drafter: drafter, logger: logger}
}

// Run executes one attempt on the given page. The returned result is always
// non-nil. A non-nil Held means the attempt is suspended awaiting approval
// and the page is intentionally left open; on every other outcome the page
// has been closed. The error return is non-nil only for browser loss, which
// callers treat as batch-fatal.
func (f *Filler) Run(ctx context.Context, page Page, attempt *types.ApplicationAttempt) (*types.ApplicationResult, *Held, error) {
	log := f.logger.With(
		zap.String("job_id", attempt.JobTarget.ID),
		zap.String("company", attempt.JobTarget.Company),
	)

	// Navigating
	f.transition(log, StateNavigating)
	if err := page.Navigate(ctx, attempt.JobTarget.ExternalURL, f.opts.NavigationTimeout); err != nil {
		page.Close()
		if browser.IsCrash(err) {
			return types.Failed(types.ReasonBrowserCrashed, err.Error(), nil), nil, err
		}
		reason := types.ReasonNetworkError
		var nav *browser.NavigationError
		if errors.As(err, &nav) && nav.Timeout {
			reason = types.ReasonNavigationTimeout
		}
		return types.Failed(reason, err.Error(), nil), nil, nil
	}

	// Detecting. Zero fields is not fatal: Submitting will fail for lack
	// of a submit target if the page truly has no form.
	f.transition(log, StateDetecting)
	fields, err := page.DetectFields(ctx)
	if err != nil {
		page.Close()
		if browser.IsCrash(err) {
			return types.Failed(types.ReasonBrowserCrashed, err.Error(), nil), nil, err
		}
		return types.Failed(types.ReasonNetworkError, err.Error(), nil), nil, nil
	}
	log.Info("fields detected", zap.Int("count", len(fields)))

	// Filling
	f.transition(log, StateFilling)
	filled, err := f.fill(ctx, page, attempt, fields, log)
	if err != nil {
		page.Close()
		return types.Failed(types.ReasonBrowserCrashed, err.Error(), filled), nil, err
	}

	if attempt.Supervised {
		// AwaitingApproval: freeze the session for the reviewer. The page
		// stays open; the approval gate owns its lifecycle from here.
		f.transition(log, StateAwaitingApproval)
		ref := f.snapshot(ctx, page, attempt, log)
		held := &Held{
			Attempt:       attempt,
			Page:          page,
			FilledFields:  filled,
			ScreenshotRef: ref,
			CreatedAt:     time.Now(),
		}
		result := &types.ApplicationResult{
			Status:        types.StatusAwaitingApproval,
			FilledFields:  filled,
			ScreenshotRef: ref,
		}
		return result, held, nil
	}

	// Submitting
	f.transition(log, StateSubmitting)
	result, err := f.submit(ctx, page, filled, log)
	page.Close()
	return result, nil, err
}

// fill classifies and injects every detected field. A single field's
// injection failure is logged and skipped — uncontrolled third-party markup
// makes 100% fill success unrealistic — but browser loss aborts.
func (f *Filler) fill(ctx context.Context, page Page, attempt *types.ApplicationAttempt, fields []types.FormField, log *zap.Logger) ([]types.FilledField, error) {
	filled := make([]types.FilledField, 0, len(fields))

	for _, cf := range classify.ClassifyAll(fields) {
		if cf.SemanticLabel == types.LabelUnknown {
			log.Debug("skipping unclassified field", zap.String("key", cf.Key), zap.String("label_text", cf.AssociatedLabel))
			continue
		}

		value, ok := f.resolve(ctx, cf.SemanticLabel, attempt)
		if !ok {
			log.Debug("skipping field without profile value",
				zap.String("key", cf.Key), zap.String("semantic", string(cf.SemanticLabel)))
			continue
		}

		if err := page.Fill(ctx, cf.FormField, value); err != nil {
			if browser.IsCrash(err) {
				return filled, err
			}
			log.Warn("field injection failed, continuing",
				zap.String("key", cf.Key), zap.String("semantic", string(cf.SemanticLabel)), zap.Error(err))
			continue
		}
		filled = append(filled, types.FilledField{Key: cf.Key, ValueInjected: value})
	}
	return filled, nil
}

// resolve produces the value for a semantic label, routing cover letters
// through the drafter when one is configured.
func (f *Filler) resolve(ctx context.Context, label types.SemanticLabel, attempt *types.ApplicationAttempt) (string, bool) {
	if label == types.LabelCoverLetter && f.drafter != nil {
		return f.drafter.Draft(ctx, attempt.JobTarget, &attempt.CandidateProfile, &attempt.ResumeBundle), true
	}
	return mapping.Resolve(label, &attempt.CandidateProfile, &attempt.ResumeBundle)
}

// snapshot captures the reviewer screenshot. Best effort: a failed capture
// degrades to an empty ref rather than failing the attempt.
func (f *Filler) snapshot(ctx context.Context, page Page, attempt *types.ApplicationAttempt, log *zap.Logger) string {
	name := fmt.Sprintf("attempt-%s-%s.png", attempt.JobTarget.ID, uuid.NewString()[:8])
	ref, err := page.CaptureScreenshot(ctx, filepath.Join(f.opts.ScreenshotDir, name))
	if err != nil {
		log.Warn("screenshot capture failed", zap.Error(err))
		return ""
	}
	return ref
}

func (f *Filler) transition(log *zap.Logger, s State) {
	log.Debug("state transition", zap.String("state", string(s)))
}
