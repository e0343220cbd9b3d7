// Package mapping resolves semantic labels into concrete values to inject,
// from a candidate profile and a pre-tailored resume bundle. Resolution is
// pure; fields the profile cannot answer are skipped, never defaulted.
package mapping

import (
	"github.com/jonathan/auto-applier/internal/types"
)

// GenericCoverLetter is the placeholder used when the bundle carries no
// cover letter and no drafter is configured.
const GenericCoverLetter = "Please find my resume attached. I believe my background is a strong match for this role and I would welcome the opportunity to discuss it further."

// Resolve maps a semantic label to the value to inject. The second return is
// false when the profile lacks the attribute — the engine then skips the
// field rather than writing an empty string.
func Resolve(label types.SemanticLabel, profile *types.CandidateProfile, bundle *types.TailoredResumeBundle) (string, bool) {
	switch label {
	case types.LabelFullName:
		return nonEmpty(profile.FullName)
	case types.LabelFirstName:
		return nonEmpty(profile.FirstName())
	case types.LabelLastName:
		return nonEmpty(profile.LastName())
	case types.LabelEmail:
		return nonEmpty(profile.Email)
	case types.LabelPhone:
		return nonEmpty(profile.Phone)
	case types.LabelLocation:
		return nonEmpty(profile.Location)
	case types.LabelCurrentRole:
		return nonEmpty(profile.CurrentRole)
	case types.LabelCurrentCompany:
		return nonEmpty(profile.CurrentCompany)
	case types.LabelLinkedin:
		return nonEmpty(profile.LinkedinURL)
	case types.LabelTotalExperience:
		return positiveNumber(profile.TotalYears)
	case types.LabelCurrentCTC:
		return positiveNumber(profile.CurrentCTC)
	case types.LabelExpectedCTC:
		return positiveNumber(profile.ExpectedCTC)
	case types.LabelNoticePeriod:
		if profile.NoticePeriodDays <= 0 {
			return "", false
		}
		return types.FormatNumber(float64(profile.NoticePeriodDays)), true
	case types.LabelResumeFile:
		return nonEmpty(bundle.PDFPath)
	case types.LabelCoverLetter:
		if bundle.CoverLetterText != "" {
			return bundle.CoverLetterText, true
		}
		return GenericCoverLetter, true
	}
	// unknown (and anything outside the closed enumeration) is skipped.
	return "", false
}

func nonEmpty(v string) (string, bool) {
	if v == "" {
		return "", false
	}
	return v, true
}

func positiveNumber(v float64) (string, bool) {
	if v <= 0 {
		return "", false
	}
	return types.FormatNumber(v), true
}
