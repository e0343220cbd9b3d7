package filler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/auto-applier/internal/browser"
	"github.com/jonathan/auto-applier/internal/types"
)

func testAttempt(supervised bool) *types.ApplicationAttempt {
	return &types.ApplicationAttempt{
		JobTarget: types.JobTarget{
			ID:          "job-1",
			ExternalURL: "https://jobs.example.com/1/apply",
			Company:     "Example Co",
			Title:       "Backend Engineer",
		},
		CandidateProfile: types.CandidateProfile{
			UserID:           "u1",
			FullName:         "Priya Sharma",
			Email:            "priya@example.com",
			CurrentCTC:       12,
			NoticePeriodDays: 30,
		},
		ResumeBundle: types.TailoredResumeBundle{PDFPath: "/tmp/resume.pdf"},
		Supervised:   supervised,
	}
}

func applicationForm() []types.FormField {
	return []types.FormField{
		{Key: "f0", AssociatedLabel: "Full Name", InputKind: types.InputText},
		{Key: "f1", AssociatedLabel: "Email", InputKind: types.InputText},
		{Key: "ctc", AssociatedLabel: "Current CTC (LPA)", Name: "ctc", InputKind: types.InputText},
		{Key: "f3", AssociatedLabel: "Upload Resume", InputKind: types.InputFile},
		{Key: "f4", AssociatedLabel: "How did you hear about us?", InputKind: types.InputSelect},
		{Key: "f5", AssociatedLabel: "Mobile Number", InputKind: types.InputText},
	}
}

func TestRun_SubmitsUnsupervised(t *testing.T) {
	page := newFakePage()
	page.fields = applicationForm()
	page.bodyText = "Thank you! Your application has been submitted. Application ID: REQ-7781"

	f := New(Options{}, nil, nil)
	result, held, err := f.Run(context.Background(), page, testAttempt(false))

	require.NoError(t, err)
	assert.Nil(t, held)
	assert.Equal(t, types.StatusSubmitted, result.Status)
	assert.Equal(t, "REQ-7781", result.ConfirmationID)
	assert.True(t, page.closed, "page must be released on the submitted path")

	// The CTC scenario: classified current_ctc, resolved to "12".
	assert.Equal(t, "12", page.filledValues["ctc"])
	assert.Contains(t, result.FilledFields, types.FilledField{Key: "ctc", ValueInjected: "12"})

	// Resume upload got the bundle path.
	assert.Equal(t, "/tmp/resume.pdf", page.filledValues["f3"])

	// The unknown select was skipped entirely.
	_, wrote := page.filledValues["f4"]
	assert.False(t, wrote, "unknown fields are skipped, never guessed")
}

// Skip-over-guess: a missing profile attribute omits the field instead of
// injecting an empty string.
func TestRun_SkipsFieldsWithoutProfileValue(t *testing.T) {
	page := newFakePage()
	page.fields = applicationForm()
	page.bodyText = "thank you"

	f := New(Options{}, nil, nil)
	result, _, err := f.Run(context.Background(), page, testAttempt(false))

	require.NoError(t, err)
	_, wrotePhone := page.filledValues["f5"]
	assert.False(t, wrotePhone, "profile has no phone; the field must be untouched")
	for _, ff := range result.FilledFields {
		assert.NotEmpty(t, ff.ValueInjected)
	}
}

func TestRun_NavigationTimeout(t *testing.T) {
	page := newFakePage()
	page.navErr = &browser.NavigationError{URL: "https://jobs.example.com", Timeout: true, Cause: context.DeadlineExceeded}

	f := New(Options{}, nil, nil)
	result, held, err := f.Run(context.Background(), page, testAttempt(false))

	require.NoError(t, err, "navigation timeout is attempt-fatal, not batch-fatal")
	assert.Nil(t, held)
	assert.Equal(t, types.StatusFailed, result.Status)
	assert.Equal(t, types.ReasonNavigationTimeout, result.Reason())
	assert.True(t, page.closed)
}

func TestRun_NetworkError(t *testing.T) {
	page := newFakePage()
	page.navErr = &browser.NavigationError{URL: "https://jobs.example.com", Cause: errors.New("dns failure")}

	f := New(Options{}, nil, nil)
	result, _, err := f.Run(context.Background(), page, testAttempt(false))

	require.NoError(t, err)
	assert.Equal(t, types.ReasonNetworkError, result.Reason())
	assert.True(t, page.closed)
}

func TestRun_BrowserCrashIsBatchFatal(t *testing.T) {
	page := newFakePage()
	page.navErr = &browser.CrashError{Message: "chrome went away"}

	f := New(Options{}, nil, nil)
	result, _, err := f.Run(context.Background(), page, testAttempt(false))

	require.Error(t, err)
	assert.True(t, browser.IsCrash(err))
	assert.Equal(t, types.ReasonBrowserCrashed, result.Reason())
	assert.True(t, page.closed)
}

// Per-field injection failures never abort the attempt.
func TestRun_InjectionFailureTolerated(t *testing.T) {
	page := newFakePage()
	page.fields = applicationForm()
	page.fillErrs = map[string]error{"f1": &browser.InjectionError{Key: "f1", Message: "detached node"}}
	page.bodyText = "application received"

	f := New(Options{}, nil, nil)
	result, _, err := f.Run(context.Background(), page, testAttempt(false))

	require.NoError(t, err)
	assert.Equal(t, types.StatusSubmitted, result.Status)
	for _, ff := range result.FilledFields {
		assert.NotEqual(t, "f1", ff.Key, "failed injection must be omitted from the audit record")
	}
}

func TestRun_NoSubmitButton(t *testing.T) {
	page := newFakePage()
	page.fields = nil // empty page: Detecting finds nothing, Filling is a no-op
	page.submitSel = ""

	f := New(Options{}, nil, nil)
	result, _, err := f.Run(context.Background(), page, testAttempt(false))

	require.NoError(t, err)
	assert.Equal(t, types.StatusFailed, result.Status)
	assert.Equal(t, types.ReasonSubmitButtonNotFound, result.Reason())
	assert.True(t, page.closed)
}

func TestRun_AmbiguousConfirmation(t *testing.T) {
	page := newFakePage()
	page.fields = applicationForm()
	page.bodyText = "We'll be in touch."

	f := New(Options{}, nil, nil)
	result, _, err := f.Run(context.Background(), page, testAttempt(false))

	require.NoError(t, err)
	assert.Equal(t, types.ReasonAmbiguousConfirm, result.Reason())
}

func TestRun_SyntheticConfirmationID(t *testing.T) {
	page := newFakePage()
	page.fields = applicationForm()
	page.bodyText = "Thank you for applying!"

	f := New(Options{}, nil, nil)
	result, _, err := f.Run(context.Background(), page, testAttempt(false))

	require.NoError(t, err)
	assert.Equal(t, types.StatusSubmitted, result.Status)
	assert.Regexp(t, `^auto-[0-9a-f]{8}$`, result.ConfirmationID)
}

func TestRun_SupervisedHoldsSession(t *testing.T) {
	page := newFakePage()
	page.fields = applicationForm()

	f := New(Options{ScreenshotDir: t.TempDir()}, nil, nil)
	result, held, err := f.Run(context.Background(), page, testAttempt(true))

	require.NoError(t, err)
	require.NotNil(t, held)
	assert.Equal(t, types.StatusAwaitingApproval, result.Status)
	assert.NotEmpty(t, result.ScreenshotRef)
	assert.False(t, page.closed, "the held page stays open for the reviewer")
	assert.Empty(t, page.clicked, "nothing is submitted before approval")
	assert.Equal(t, result.FilledFields, held.FilledFields)
}

func TestFinish_Reject(t *testing.T) {
	page := newFakePage()
	page.fields = applicationForm()

	f := New(Options{ScreenshotDir: t.TempDir()}, nil, nil)
	_, held, err := f.Run(context.Background(), page, testAttempt(true))
	require.NoError(t, err)

	result, err := f.Finish(context.Background(), held, false)
	require.NoError(t, err)
	assert.Equal(t, types.StatusFailed, result.Status)
	assert.Equal(t, types.ReasonRejectedByUser, result.Reason())
	assert.True(t, page.closed)
	assert.Empty(t, page.clicked)
	assert.NotEmpty(t, result.FilledFields, "reviewer still sees what was filled")
}

func TestFinish_ApproveSubmits(t *testing.T) {
	page := newFakePage()
	page.fields = applicationForm()
	page.bodyText = "Application submitted successfully. Confirmation number: 99120"

	f := New(Options{ScreenshotDir: t.TempDir()}, nil, nil)
	_, held, err := f.Run(context.Background(), page, testAttempt(true))
	require.NoError(t, err)

	result, err := f.Finish(context.Background(), held, true)
	require.NoError(t, err)
	assert.Equal(t, types.StatusSubmitted, result.Status)
	assert.Equal(t, "99120", result.ConfirmationID)
	assert.True(t, page.closed)
	assert.NotEmpty(t, page.clicked)
}

func TestExpire(t *testing.T) {
	page := newFakePage()
	page.fields = applicationForm()

	f := New(Options{ScreenshotDir: t.TempDir()}, nil, nil)
	_, held, err := f.Run(context.Background(), page, testAttempt(true))
	require.NoError(t, err)

	result := f.Expire(held)
	assert.Equal(t, types.ReasonApprovalExpired, result.Reason())
	assert.True(t, page.closed)
}

// Screenshot failure degrades to an empty ref, it does not fail the attempt.
func TestRun_SupervisedScreenshotFailureTolerated(t *testing.T) {
	page := newFakePage()
	page.fields = applicationForm()
	page.screenshotErr = errors.New("emulation error")

	f := New(Options{}, nil, nil)
	result, held, err := f.Run(context.Background(), page, testAttempt(true))

	require.NoError(t, err)
	require.NotNil(t, held)
	assert.Equal(t, types.StatusAwaitingApproval, result.Status)
	assert.Empty(t, result.ScreenshotRef)
}
