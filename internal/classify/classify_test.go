package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/auto-applier/internal/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		field    types.FormField
		expected types.SemanticLabel
	}{
		{
			name:     "full name by label",
			field:    types.FormField{AssociatedLabel: "Full Name", Name: "applicant", InputKind: types.InputText},
			expected: types.LabelFullName,
		},
		{
			name:     "your name phrasing",
			field:    types.FormField{AssociatedLabel: "Your Name", InputKind: types.InputText},
			expected: types.LabelFullName,
		},
		{
			name:     "bare name attribute",
			field:    types.FormField{Name: "name", InputKind: types.InputText},
			expected: types.LabelFullName,
		},
		{
			name:     "first name beats full name",
			field:    types.FormField{AssociatedLabel: "First Name", Name: "first_name", InputKind: types.InputText},
			expected: types.LabelFirstName,
		},
		{
			name:     "last name",
			field:    types.FormField{AssociatedLabel: "Surname", InputKind: types.InputText},
			expected: types.LabelLastName,
		},
		{
			name:     "email",
			field:    types.FormField{AssociatedLabel: "Email Address", Name: "email", InputKind: types.InputText},
			expected: types.LabelEmail,
		},
		{
			name:     "phone by placeholder",
			field:    types.FormField{Placeholder: "Mobile number", InputKind: types.InputText},
			expected: types.LabelPhone,
		},
		{
			name:     "current ctc scenario",
			field:    types.FormField{AssociatedLabel: "Current CTC (LPA)", Name: "ctc", InputKind: types.InputText},
			expected: types.LabelCurrentCTC,
		},
		{
			name:     "expected ctc beats bare ctc",
			field:    types.FormField{AssociatedLabel: "Expected CTC", Name: "expected_ctc", InputKind: types.InputText},
			expected: types.LabelExpectedCTC,
		},
		{
			name:     "salary expectation phrasing",
			field:    types.FormField{AssociatedLabel: "Salary expectation", InputKind: types.InputText},
			expected: types.LabelExpectedCTC,
		},
		{
			name:     "notice period select",
			field:    types.FormField{AssociatedLabel: "Notice Period", InputKind: types.InputSelect},
			expected: types.LabelNoticePeriod,
		},
		{
			name:     "total experience",
			field:    types.FormField{AssociatedLabel: "Years of Experience", InputKind: types.InputText},
			expected: types.LabelTotalExperience,
		},
		{
			name:     "current company beats bare name",
			field:    types.FormField{AssociatedLabel: "Company Name", Name: "company", InputKind: types.InputText},
			expected: types.LabelCurrentCompany,
		},
		{
			name:     "current role",
			field:    types.FormField{AssociatedLabel: "Job Title", InputKind: types.InputText},
			expected: types.LabelCurrentRole,
		},
		{
			name:     "location",
			field:    types.FormField{AssociatedLabel: "Current Location", InputKind: types.InputText},
			expected: types.LabelLocation,
		},
		{
			name:     "linkedin",
			field:    types.FormField{Placeholder: "https://linkedin.com/in/you", InputKind: types.InputText},
			expected: types.LabelLinkedin,
		},
		{
			name:     "resume file upload",
			field:    types.FormField{AssociatedLabel: "Upload Resume", InputKind: types.InputFile},
			expected: types.LabelResumeFile,
		},
		{
			name:     "cv file upload",
			field:    types.FormField{Name: "cv_upload", InputKind: types.InputFile},
			expected: types.LabelResumeFile,
		},
		{
			name:     "resume text field is not a file upload",
			field:    types.FormField{AssociatedLabel: "Paste your resume", InputKind: types.InputTextarea},
			expected: types.LabelUnknown,
		},
		{
			name:     "cover letter textarea",
			field:    types.FormField{AssociatedLabel: "Cover Letter", InputKind: types.InputTextarea},
			expected: types.LabelCoverLetter,
		},
		{
			name:     "unknown field",
			field:    types.FormField{AssociatedLabel: "How did you hear about us?", InputKind: types.InputSelect},
			expected: types.LabelUnknown,
		},
		{
			name:     "empty metadata",
			field:    types.FormField{InputKind: types.InputText},
			expected: types.LabelUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.field))
		})
	}
}

// Classification must be deterministic: repeated calls on the same field
// always yield the same label.
func TestClassify_Deterministic(t *testing.T) {
	field := types.FormField{AssociatedLabel: "Current CTC (LPA)", Name: "ctc", InputKind: types.InputText}
	first := Classify(field)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Classify(field))
	}
}

func TestClassifyAll_PreservesOrder(t *testing.T) {
	fields := []types.FormField{
		{Key: "f0", AssociatedLabel: "Email", InputKind: types.InputText},
		{Key: "f1", AssociatedLabel: "Mystery", InputKind: types.InputText},
		{Key: "f2", AssociatedLabel: "Phone", InputKind: types.InputText},
	}

	classified := ClassifyAll(fields)

	assert.Len(t, classified, 3)
	assert.Equal(t, "f0", classified[0].Key)
	assert.Equal(t, types.LabelEmail, classified[0].SemanticLabel)
	assert.Equal(t, types.LabelUnknown, classified[1].SemanticLabel)
	assert.Equal(t, types.LabelPhone, classified[2].SemanticLabel)
}

func TestIdentifier_Lowercases(t *testing.T) {
	f := types.FormField{AssociatedLabel: "Full NAME", Name: "Applicant_Name", Placeholder: "Enter Name"}
	assert.Equal(t, "full name applicant_name  enter name", Identifier(f))
}
