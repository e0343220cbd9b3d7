package filler

import (
	"context"
	"time"

	"github.com/jonathan/auto-applier/internal/types"
)

// fakePage scripts every browser interaction so the state machine can be
// exercised without Chrome.
type fakePage struct {
	navErr        error
	fields        []types.FormField
	detectErr     error
	fillErrs      map[string]error
	submitSel     string
	findSubmitErr error
	clickErr      error
	bodyText      string
	bodyErr       error
	html          string
	screenshotErr error

	filledValues map[string]string
	clicked      []string
	closed       bool
	screenshots  int
}

func newFakePage() *fakePage {
	return &fakePage{
		submitSel:    `[data-apl-submit="1"]`,
		filledValues: make(map[string]string),
	}
}

func (p *fakePage) Navigate(_ context.Context, _ string, _ time.Duration) error {
	return p.navErr
}

func (p *fakePage) DetectFields(_ context.Context) ([]types.FormField, error) {
	return p.fields, p.detectErr
}

func (p *fakePage) Fill(_ context.Context, field types.FormField, value string) error {
	if err, ok := p.fillErrs[field.Key]; ok {
		return err
	}
	p.filledValues[field.Key] = value
	return nil
}

func (p *fakePage) FindSubmit(_ context.Context) (string, error) {
	return p.submitSel, p.findSubmitErr
}

func (p *fakePage) Click(_ context.Context, sel string, _ time.Duration) error {
	p.clicked = append(p.clicked, sel)
	return p.clickErr
}

func (p *fakePage) BodyText(_ context.Context) (string, error) {
	return p.bodyText, p.bodyErr
}

func (p *fakePage) OuterHTML(_ context.Context) (string, error) {
	return p.html, nil
}

func (p *fakePage) CaptureScreenshot(_ context.Context, path string) (string, error) {
	if p.screenshotErr != nil {
		return "", p.screenshotErr
	}
	p.screenshots++
	return path, nil
}

func (p *fakePage) Close() {
	p.closed = true
}
