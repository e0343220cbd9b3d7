package filler

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/auto-applier/internal/browser"
	"github.com/jonathan/auto-applier/internal/types"
)

// submit locates the submit control, clicks it, and classifies the resulting
// page. The non-nil error return signals browser loss only.
func (f *Filler) submit(ctx context.Context, page Page, filled []types.FilledField, log *zap.Logger) (*types.ApplicationResult, error) {
	sel, err := page.FindSubmit(ctx)
	if err != nil {
		if browser.IsCrash(err) {
			return types.Failed(types.ReasonBrowserCrashed, err.Error(), filled), err
		}
		return types.Failed(types.ReasonNetworkError, err.Error(), filled), nil
	}
	if sel == "" {
		return types.Failed(types.ReasonSubmitButtonNotFound, "", filled), nil
	}

	if err := page.Click(ctx, sel, f.opts.SettleTimeout); err != nil {
		if browser.IsCrash(err) {
			return types.Failed(types.ReasonBrowserCrashed, err.Error(), filled), err
		}
		return types.Failed(types.ReasonNetworkError, "submit click failed: "+err.Error(), filled), nil
	}

	// Success detection is a best-effort text heuristic; sites with exotic
	// confirmation pages come back ambiguous, not submitted.
	text, err := page.BodyText(ctx)
	if err != nil {
		if browser.IsCrash(err) {
			return types.Failed(types.ReasonBrowserCrashed, err.Error(), filled), err
		}
		return types.Failed(types.ReasonAmbiguousConfirm, "could not read confirmation page", filled), nil
	}

	if !IsConfirmation(text) {
		log.Info("no success marker on result page")
		return types.Failed(types.ReasonAmbiguousConfirm, "", filled), nil
	}

	confirmationID := ""
	if html, htmlErr := page.OuterHTML(ctx); htmlErr == nil {
		confirmationID = ExtractConfirmationID(html)
	}
	if confirmationID == "" {
		confirmationID = ExtractConfirmationIDFromText(text)
	}
	if confirmationID == "" {
		// Every successful attempt needs a traceable identifier.
		confirmationID = SyntheticConfirmationID()
	}

	log.Info("application submitted", zap.String("confirmation_id", confirmationID))
	return &types.ApplicationResult{
		Status:         types.StatusSubmitted,
		ConfirmationID: confirmationID,
		FilledFields:   filled,
	}, nil
}

// Finish completes a held supervised attempt. Approval transitions the held
// session into Submitting; rejection closes the page and fails the attempt.
// The page is closed on every path. The error return signals browser loss.
func (f *Filler) Finish(ctx context.Context, held *Held, approve bool) (*types.ApplicationResult, error) {
	log := f.logger.With(zap.String("job_id", held.Attempt.JobTarget.ID))

	if !approve {
		held.Page.Close()
		log.Info("attempt rejected by reviewer")
		result := types.Failed(types.ReasonRejectedByUser, "", held.FilledFields)
		result.ScreenshotRef = held.ScreenshotRef
		return result, nil
	}

	f.transition(log, StateSubmitting)
	result, err := f.submit(ctx, held.Page, held.FilledFields, log)
	held.Page.Close()
	result.ScreenshotRef = held.ScreenshotRef
	return result, err
}

// Expire discards a held attempt whose reviewer never responded.
func (f *Filler) Expire(held *Held) *types.ApplicationResult {
	held.Page.Close()
	result := types.Failed(types.ReasonApprovalExpired, "", held.FilledFields)
	result.ScreenshotRef = held.ScreenshotRef
	return result
}
