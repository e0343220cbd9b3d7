package classify

import (
	"strings"

	"github.com/jonathan/auto-applier/internal/types"
)

// rule pairs a predicate over the field's identifier text with the semantic
// label it implies. Rules are evaluated in order and the first match wins, so
// narrower patterns (expected_ctc, first_name) must precede the broader ones
// they would otherwise shadow (current_ctc, full_name).
type rule struct {
	label types.SemanticLabel
	match func(ident string, field types.FormField) bool
}

// containsAny reports whether ident contains any of the given substrings.
func containsAny(ident string, patterns ...string) bool {
	for _, p := range patterns {
		if strings.Contains(ident, p) {
			return true
		}
	}
	return false
}

// rules is the fixed classification table. The order is part of the
// classifier's contract: the same form must classify identically on every
// run, and tests pin the priority between overlapping patterns.
var rules = []rule{
	{
		label: types.LabelResumeFile,
		match: func(ident string, f types.FormField) bool {
			return f.InputKind == types.InputFile &&
				containsAny(ident, "resume", "cv", "curriculum")
		},
	},
	{
		label: types.LabelCoverLetter,
		match: func(ident string, f types.FormField) bool {
			return containsAny(ident, "cover letter", "cover_letter", "coverletter", "motivation letter")
		},
	},
	{
		label: types.LabelEmail,
		match: func(ident string, f types.FormField) bool {
			return containsAny(ident, "email", "e-mail")
		},
	},
	{
		label: types.LabelPhone,
		match: func(ident string, f types.FormField) bool {
			return containsAny(ident, "phone", "mobile", "contact number", "contact no")
		},
	},
	{
		label: types.LabelLinkedin,
		match: func(ident string, f types.FormField) bool {
			return strings.Contains(ident, "linkedin")
		},
	},
	{
		label: types.LabelExpectedCTC,
		match: func(ident string, f types.FormField) bool {
			return containsAny(ident, "expected ctc", "expected salary", "desired salary",
				"salary expectation", "expected compensation", "expected_ctc")
		},
	},
	{
		label: types.LabelCurrentCTC,
		match: func(ident string, f types.FormField) bool {
			return containsAny(ident, "current ctc", "current salary", "present salary",
				"current compensation", "ctc")
		},
	},
	{
		label: types.LabelNoticePeriod,
		match: func(ident string, f types.FormField) bool {
			return containsAny(ident, "notice period", "notice_period", "noticeperiod",
				"when can you join", "availability to join")
		},
	},
	{
		label: types.LabelTotalExperience,
		match: func(ident string, f types.FormField) bool {
			return containsAny(ident, "years of experience", "total experience",
				"experience (years)", "years_of_experience", "total_experience",
				"work experience", "experience")
		},
	},
	{
		label: types.LabelCurrentCompany,
		match: func(ident string, f types.FormField) bool {
			return containsAny(ident, "current company", "current employer", "company name",
				"employer", "organization", "organisation")
		},
	},
	{
		label: types.LabelCurrentRole,
		match: func(ident string, f types.FormField) bool {
			return containsAny(ident, "current role", "current title", "current position",
				"job title", "designation")
		},
	},
	{
		label: types.LabelLocation,
		match: func(ident string, f types.FormField) bool {
			return containsAny(ident, "location", "city", "current address", "where are you based")
		},
	},
	{
		label: types.LabelFirstName,
		match: func(ident string, f types.FormField) bool {
			return containsAny(ident, "first name", "first_name", "firstname", "given name", "fname")
		},
	},
	{
		label: types.LabelLastName,
		match: func(ident string, f types.FormField) bool {
			return containsAny(ident, "last name", "last_name", "lastname", "surname", "family name", "lname")
		},
	},
	{
		label: types.LabelFullName,
		match: func(ident string, f types.FormField) bool {
			if containsAny(ident, "full name", "full_name", "fullname", "your name", "candidate name", "complete name") {
				return true
			}
			// A bare "name" field with nothing else qualifying it.
			return strings.TrimSpace(ident) == "name" || f.Name == "name"
		},
	},
}
