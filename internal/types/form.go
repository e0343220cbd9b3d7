package types

// InputKind is the DOM input category of a discovered form field.
type InputKind string

const (
	// InputText covers text-like inputs (text, email, tel, number, url).
	InputText InputKind = "text"
	// InputSelect is a dropdown.
	InputSelect InputKind = "select"
	// InputFile is a file upload input.
	InputFile InputKind = "file"
	// InputTextarea is a multi-line text area.
	InputTextarea InputKind = "textarea"
)

// FormField is one input discovered on an application page. Fields are
// transient: they are rebuilt on every navigation and never persisted.
type FormField struct {
	// Key addresses the element in the live page (the detection pass tags
	// each element with it).
	Key             string    `json:"key"`
	InputKind       InputKind `json:"input_kind"`
	Name            string    `json:"name"`
	ID              string    `json:"id"`
	Placeholder     string    `json:"placeholder"`
	IsRequired      bool      `json:"is_required"`
	AssociatedLabel string    `json:"associated_label"`
}

// SemanticLabel is the inferred meaning of a form field, independent of its
// raw DOM attributes. The enumeration is closed: anything the classifier
// cannot place maps to LabelUnknown and is skipped, never guessed.
type SemanticLabel string

const (
	LabelFullName        SemanticLabel = "full_name"
	LabelFirstName       SemanticLabel = "first_name"
	LabelLastName        SemanticLabel = "last_name"
	LabelEmail           SemanticLabel = "email"
	LabelPhone           SemanticLabel = "phone"
	LabelCurrentCompany  SemanticLabel = "current_company"
	LabelCurrentRole     SemanticLabel = "current_role"
	LabelTotalExperience SemanticLabel = "total_experience"
	LabelCurrentCTC      SemanticLabel = "current_ctc"
	LabelExpectedCTC     SemanticLabel = "expected_ctc"
	LabelNoticePeriod    SemanticLabel = "notice_period"
	LabelLocation        SemanticLabel = "location"
	LabelLinkedin        SemanticLabel = "linkedin"
	LabelResumeFile      SemanticLabel = "resume_file"
	LabelCoverLetter     SemanticLabel = "cover_letter"
	LabelUnknown         SemanticLabel = "unknown"
)

// ClassifiedField pairs a discovered field with its semantic label.
type ClassifiedField struct {
	FormField
	SemanticLabel SemanticLabel `json:"semantic_label"`
}

// FilledField is the audit record of what was actually written into the DOM.
// Reviewers see it before any supervised submission; it is also the primary
// debugging artifact for submission failures.
type FilledField struct {
	Key           string `json:"key"`
	ValueInjected string `json:"value_injected"`
}
