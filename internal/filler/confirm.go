package filler

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

// successMarkers are the phrases that indicate a submission landed. The list
// is deliberately small and fixed: confirmation detection is a heuristic
// signal, not a guarantee.
var successMarkers = []string{
	"application submitted",
	"application received",
	"successfully applied",
	"successfully submitted",
	"thank you for applying",
	"thank you for your application",
	"we have received your application",
	"thank you",
	"success",
}

// confirmationIDPattern matches "Application ID: ABC-123" style references in
// confirmation copy.
var confirmationIDPattern = regexp.MustCompile(
	`(?i)(?:confirmation|application|reference)\s*(?:id|number|no\.?|#)\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9-]{3,})`)

// bannerSelectors are the elements most likely to carry the confirmation
// message, checked before falling back to the whole page.
var bannerSelectors = []string{
	".confirmation",
	".success-message",
	".thank-you",
	"[class*='confirmation']",
	"[class*='success']",
	"h1, h2",
}

// IsConfirmation reports whether the page text contains a success marker.
func IsConfirmation(pageText string) bool {
	lowered := strings.ToLower(pageText)
	for _, marker := range successMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// ExtractConfirmationID pulls a confirmation/application ID out of the
// confirmation page HTML, preferring banner elements over body-wide text.
func ExtractConfirmationID(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	for _, sel := range bannerSelectors {
		var found string
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if m := confirmationIDPattern.FindStringSubmatch(s.Text()); m != nil {
				found = m[1]
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}

	if m := confirmationIDPattern.FindStringSubmatch(doc.Text()); m != nil {
		return m[1]
	}
	return ""
}

// ExtractConfirmationIDFromText applies the ID pattern to plain page text.
func ExtractConfirmationIDFromText(text string) string {
	if m := confirmationIDPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// SyntheticConfirmationID generates a traceable identifier for submissions
// whose confirmation page exposes none.
func SyntheticConfirmationID() string {
	return "auto-" + uuid.NewString()[:8]
}
