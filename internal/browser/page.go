package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
)

// findSubmitJS locates a submission control: anything typed submit, or a
// button/link whose visible text reads like "submit" or "apply". The first
// candidate is tagged so the click can address it.
const findSubmitJS = `(() => {
	const wanted = (el) => {
		const text = ((el.innerText || el.value || '') + ' ' +
			(el.getAttribute('aria-label') || '')).toLowerCase();
		return text.includes('submit') || text.includes('apply') ||
			text.includes('send application');
	};
	const candidates = [];
	for (const el of document.querySelectorAll(
		'button, input[type="submit"], input[type="button"], a[role="button"]')) {
		const type = (el.getAttribute('type') || '').toLowerCase();
		if (type === 'submit' || wanted(el)) candidates.push(el);
	}
	if (candidates.length === 0) return '';
	candidates[0].setAttribute('data-apl-submit', '1');
	return '[data-apl-submit="1"]';
})()`

// FindSubmit locates the page's submission control by type/role/text
// heuristics. An empty selector with nil error means no control was found.
func (s *Session) FindSubmit(ctx context.Context) (string, error) {
	tctx, cancel := s.scoped(ctx, 0)
	defer cancel()

	var sel string
	if err := chromedp.Run(tctx, chromedp.Evaluate(findSubmitJS, &sel)); err != nil {
		if s.Crashed() {
			return "", &CrashError{Message: "browser lost locating submit control", Cause: err}
		}
		return "", fmt.Errorf("submit lookup failed: %w", err)
	}
	return sel, nil
}

// Click clicks the element at sel and waits settle for the resulting
// navigation or in-page confirmation to render.
func (s *Session) Click(ctx context.Context, sel string, settle time.Duration) error {
	if settle <= 0 {
		settle = 2 * time.Second
	}
	tctx, cancel := s.scoped(ctx, settle+s.opts.OpTimeout)
	defer cancel()

	err := chromedp.Run(tctx,
		chromedp.Click(sel, chromedp.ByQuery, chromedp.NodeVisible),
		chromedp.Sleep(settle),
	)
	if err != nil {
		if s.Crashed() {
			return &CrashError{Message: "browser lost during click", Cause: err}
		}
		return fmt.Errorf("click failed for %s: %w", sel, err)
	}
	return nil
}

// BodyText returns the rendered text of the current page body.
func (s *Session) BodyText(ctx context.Context) (string, error) {
	tctx, cancel := s.scoped(ctx, 0)
	defer cancel()

	var text string
	if err := chromedp.Run(tctx, chromedp.Text("body", &text, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("body text extraction failed: %w", err)
	}
	return text, nil
}

// OuterHTML returns the full HTML of the current page.
func (s *Session) OuterHTML(ctx context.Context) (string, error) {
	tctx, cancel := s.scoped(ctx, 0)
	defer cancel()

	var html string
	if err := chromedp.Run(tctx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("html extraction failed: %w", err)
	}
	return html, nil
}

// CaptureScreenshot writes a full-page screenshot to path and returns the
// path. The parent directory is created if needed.
func (s *Session) CaptureScreenshot(ctx context.Context, path string) (string, error) {
	tctx, cancel := s.scoped(ctx, 0)
	defer cancel()

	var buf []byte
	if err := chromedp.Run(tctx, chromedp.FullScreenshot(&buf, 85)); err != nil {
		return "", fmt.Errorf("screenshot failed: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("screenshot dir: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", fmt.Errorf("screenshot write: %w", err)
	}
	return path, nil
}
