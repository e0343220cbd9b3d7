package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/jonathan/auto-applier/internal/types"
)

// selectOptionJS picks the dropdown option whose value or visible text
// matches the injected value (case-insensitive substring on text, exact on
// value) and fires a change event so framework bindings notice.
const selectOptionJS = `((sel, value) => {
	const el = document.querySelector(sel);
	if (!el) return false;
	const want = value.toLowerCase();
	let hit = -1;
	for (let i = 0; i < el.options.length; i++) {
		const opt = el.options[i];
		if (opt.value === value) { hit = i; break; }
		if ((opt.innerText || '').toLowerCase().includes(want)) { hit = i; break; }
	}
	if (hit < 0) return false;
	el.selectedIndex = hit;
	el.dispatchEvent(new Event('change', { bubbles: true }));
	return true;
})`

// Fill writes value into the field discovered earlier. Text-like inputs are
// typed into, selects resolved against their options, file inputs uploaded.
// Failures come back as *InjectionError so the caller can treat them as
// recoverable.
func (s *Session) Fill(ctx context.Context, field types.FormField, value string) error {
	sel := keySelector(field.Key)

	tctx, cancel := s.scoped(ctx, 0)
	defer cancel()

	var err error
	switch field.InputKind {
	case types.InputText, types.InputTextarea:
		err = chromedp.Run(tctx,
			chromedp.SetValue(sel, "", chromedp.ByQuery),
			chromedp.SendKeys(sel, value, chromedp.ByQuery),
		)
	case types.InputSelect:
		var matched bool
		err = chromedp.Run(tctx,
			chromedp.Evaluate(fmt.Sprintf("%s(%q, %q)", selectOptionJS, sel, value), &matched),
		)
		if err == nil && !matched {
			return &InjectionError{Key: field.Key, Message: "no option matched " + value}
		}
	case types.InputFile:
		err = chromedp.Run(tctx,
			chromedp.SetUploadFiles(sel, []string{value}, chromedp.ByQuery),
		)
	default:
		return &InjectionError{Key: field.Key, Message: "unsupported input kind " + string(field.InputKind)}
	}

	if err != nil {
		if s.Crashed() {
			return &CrashError{Message: "browser lost during injection", Cause: err}
		}
		return &InjectionError{Key: field.Key, Message: "DOM write failed", Cause: err}
	}
	return nil
}
