package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/jonathan/auto-applier/internal/types"
)

// detectFieldsJS enumerates every fillable input/select/textarea on the page
// and tags each element with a data-apl-key attribute so later injection can
// address it without relying on the site's own ids.
const detectFieldsJS = `(() => {
	const skip = ['hidden', 'submit', 'button', 'checkbox', 'radio', 'image', 'reset'];
	const out = [];
	let i = 0;
	for (const el of document.querySelectorAll('input, select, textarea')) {
		let kind;
		if (el.tagName === 'SELECT') {
			kind = 'select';
		} else if (el.tagName === 'TEXTAREA') {
			kind = 'textarea';
		} else {
			const t = (el.type || 'text').toLowerCase();
			if (skip.includes(t)) continue;
			kind = t === 'file' ? 'file' : 'text';
		}
		const key = 'f' + (i++);
		el.setAttribute('data-apl-key', key);

		let label = '';
		if (el.id) {
			const forLabel = document.querySelector('label[for="' + CSS.escape(el.id) + '"]');
			if (forLabel) label = forLabel.innerText;
		}
		if (!label) {
			const parentLabel = el.closest('label');
			if (parentLabel) label = parentLabel.innerText;
		}
		if (!label) label = el.getAttribute('aria-label') || '';

		out.push({
			key: key,
			input_kind: kind,
			name: el.getAttribute('name') || '',
			id: el.id || '',
			placeholder: el.getAttribute('placeholder') || '',
			is_required: !!el.required,
			associated_label: label.trim(),
		});
	}
	return out;
})()`

// DetectFields enumerates the fillable fields on the current page. Zero
// fields is not an error; pages without a form simply yield an empty slice.
func (s *Session) DetectFields(ctx context.Context) ([]types.FormField, error) {
	tctx, cancel := s.scoped(ctx, 0)
	defer cancel()

	var fields []types.FormField
	if err := chromedp.Run(tctx, chromedp.Evaluate(detectFieldsJS, &fields)); err != nil {
		if s.Crashed() {
			return nil, &CrashError{Message: "browser lost during field detection", Cause: err}
		}
		return nil, fmt.Errorf("field detection failed: %w", err)
	}
	return fields, nil
}

// keySelector addresses an element tagged during detection.
func keySelector(key string) string {
	return fmt.Sprintf(`[data-apl-key=%q]`, key)
}
