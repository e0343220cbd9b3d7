package types

import (
	"strconv"
	"strings"
)

// CandidateProfile is a read-only snapshot of the candidate's structured data,
// owned by user management. The engine holds it for the duration of one
// attempt and never writes it back.
type CandidateProfile struct {
	UserID           string  `json:"user_id" validate:"required"`
	FullName         string  `json:"full_name" validate:"required"`
	Email            string  `json:"email" validate:"required,email"`
	Phone            string  `json:"phone"`
	Location         string  `json:"location"`
	CurrentRole      string  `json:"current_role"`
	CurrentCompany   string  `json:"current_company"`
	TotalYears       float64 `json:"total_years" validate:"gte=0"`
	CurrentCTC       float64 `json:"current_ctc" validate:"gte=0"`
	ExpectedCTC      float64 `json:"expected_ctc" validate:"gte=0"`
	NoticePeriodDays int     `json:"notice_period_days" validate:"gte=0"`
	LinkedinURL      string  `json:"linkedin_url"`
}

// FirstName returns the leading token of the full name.
func (p *CandidateProfile) FirstName() string {
	parts := strings.Fields(p.FullName)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// LastName returns everything after the first token of the full name.
func (p *CandidateProfile) LastName() string {
	parts := strings.Fields(p.FullName)
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts[1:], " ")
}

// FormatNumber renders a numeric profile attribute the way forms expect it:
// "12" rather than "12.000000", "5.5" kept as-is.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// TailoredResumeBundle is the rendered document produced by the resume
// tailoring collaborator for a specific job. The PDF path is treated as an
// opaque file handle to upload.
type TailoredResumeBundle struct {
	PDFPath         string `json:"pdf_path"`
	CoverLetterText string `json:"cover_letter_text,omitempty"`
}
