// Package classify assigns semantic labels to raw form fields discovered on
// third-party application pages. Classification is a pure function of field
// metadata: no I/O, no state, so the same form always classifies identically.
package classify

import (
	"strings"

	"github.com/jonathan/auto-applier/internal/types"
)

// Identifier builds the lowercase text the rule table matches against. The
// associated label carries the most signal, so it goes first; name, id and
// placeholder follow as fallbacks for label-less markup.
func Identifier(f types.FormField) string {
	parts := []string{f.AssociatedLabel, f.Name, f.ID, f.Placeholder}
	return strings.ToLower(strings.TrimSpace(strings.Join(parts, " ")))
}

// Classify maps a form field to its semantic label. First matching rule wins;
// fields matching no rule are labeled unknown and the engine skips them
// rather than guessing a value.
func Classify(f types.FormField) types.SemanticLabel {
	ident := Identifier(f)
	for _, r := range rules {
		if r.match(ident, f) {
			return r.label
		}
	}
	return types.LabelUnknown
}

// ClassifyAll labels every discovered field, preserving input order.
func ClassifyAll(fields []types.FormField) []types.ClassifiedField {
	classified := make([]types.ClassifiedField, 0, len(fields))
	for _, f := range fields {
		classified = append(classified, types.ClassifiedField{
			FormField:     f,
			SemanticLabel: Classify(f),
		})
	}
	return classified
}
