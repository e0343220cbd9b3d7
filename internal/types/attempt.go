package types

// ApplicationAttempt is the unit of work: one execution of the form filler
// against one job target for one candidate. Attempts are created fresh per
// job and never reused.
type ApplicationAttempt struct {
	JobTarget        JobTarget            `json:"job_target"`
	CandidateProfile CandidateProfile     `json:"candidate_profile"`
	ResumeBundle     TailoredResumeBundle `json:"resume_bundle"`
	Supervised       bool                 `json:"supervised"`
}

// AttemptStatus is the terminal (or suspended) status of an attempt.
type AttemptStatus string

const (
	StatusSubmitted        AttemptStatus = "submitted"
	StatusAwaitingApproval AttemptStatus = "awaiting_approval"
	StatusFailed           AttemptStatus = "failed"
)

// Failure reason codes surfaced in ApplicationResult.ErrorMessage prefixes
// and in logs. These are stable strings; collaborators key alerting on them.
const (
	ReasonNavigationTimeout    = "navigation_timeout"
	ReasonNetworkError         = "network_error"
	ReasonSubmitButtonNotFound = "submit_button_not_found"
	ReasonAmbiguousConfirm     = "ambiguous_confirmation"
	ReasonRejectedByUser       = "rejected_by_user"
	ReasonApprovalExpired      = "approval_expired"
	ReasonBrowserCrashed       = "browser_crashed"
	ReasonDependencyFailure    = "dependency_failure"
)

// ApplicationResult is the record produced for an attempt. Exactly one
// terminal result (submitted or failed) exists per attempt; a supervised
// attempt additionally surfaces one awaiting_approval hand-off before its
// terminal result.
type ApplicationResult struct {
	Status         AttemptStatus `json:"status"`
	ConfirmationID string        `json:"confirmation_id,omitempty"`
	FilledFields   []FilledField `json:"filled_fields"`
	ScreenshotRef  string        `json:"screenshot_ref,omitempty"`
	ErrorMessage   string        `json:"error_message,omitempty"`
	// ApprovalHandle is set only on awaiting_approval results; it is the
	// token ResumeApproval expects.
	ApprovalHandle string `json:"approval_handle,omitempty"`
}

// Failed builds a failed result with the given reason code and detail.
func Failed(reason, detail string, filled []FilledField) *ApplicationResult {
	msg := reason
	if detail != "" {
		msg = reason + ": " + detail
	}
	return &ApplicationResult{
		Status:       StatusFailed,
		FilledFields: filled,
		ErrorMessage: msg,
	}
}

// Reason extracts the leading reason code from the error message.
func (r *ApplicationResult) Reason() string {
	if r.ErrorMessage == "" {
		return ""
	}
	for i := 0; i < len(r.ErrorMessage); i++ {
		if r.ErrorMessage[i] == ':' {
			return r.ErrorMessage[:i]
		}
	}
	return r.ErrorMessage
}
