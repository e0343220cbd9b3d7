// Package browser drives a headless Chrome tab for form automation: field
// detection, value injection, file upload, screenshots and submission clicks.
// Requires Chrome/Chromium to be installed on the system.
package browser

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Options configures a browser session.
type Options struct {
	Headless bool
	// OpTimeout bounds individual DOM operations (injection, text reads).
	OpTimeout time.Duration
	UserAgent string
}

// DefaultOptions returns sensible defaults for unattended runs.
func DefaultOptions() Options {
	return Options{
		Headless:  true,
		OpTimeout: 10 * time.Second,
		UserAgent: "Mozilla/5.0 (compatible; AutoApplier/1.0)",
	}
}

// Session owns exactly one browser tab. A session belongs to a single
// application attempt and must be closed on every exit path of that attempt;
// the one exception is the approval hand-off, where ownership moves to the
// held attempt.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	opts        Options
	logger      *zap.Logger
}

// NewSession starts a browser and opens a fresh tab.
func NewSession(ctx context.Context, opts Options, logger *zap.Logger) (*Session, error) {
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = DefaultOptions().OpTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	// Start the browser process eagerly so a missing Chrome binary fails
	// here instead of mid-attempt.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return nil, &CrashError{Message: "failed to start browser", Cause: err}
	}

	return &Session{
		ctx:         browserCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
		opts:        opts,
		logger:      logger,
	}, nil
}

// Navigate opens the target URL and waits for the document body, bounded by
// timeout. Navigation is not retried here; retries belong to the resilience
// wrappers around the whole attempt.
func (s *Session) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	s.logger.Debug("navigating", zap.String("url", url), zap.Duration("timeout", timeout))

	tctx, cancel := s.scoped(ctx, timeout)
	defer cancel()

	err := chromedp.Run(tctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// Give client-rendered forms a moment to mount.
		chromedp.Sleep(2*time.Second),
	)
	if err != nil {
		if s.Crashed() {
			return &CrashError{Message: "browser lost during navigation", Cause: err}
		}
		return &NavigationError{
			URL:     url,
			Timeout: errors.Is(err, context.DeadlineExceeded),
			Cause:   err,
		}
	}
	return nil
}

// Close releases the tab and the browser process. Safe to call more than
// once.
func (s *Session) Close() {
	s.cancel()
	s.allocCancel()
}

// Crashed reports whether the underlying browser context has died.
func (s *Session) Crashed() bool {
	return s.ctx.Err() != nil
}

// scoped derives a run context honoring both the caller's context and the
// session's per-operation timeout.
func (s *Session) scoped(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = s.opts.OpTimeout
	}
	runCtx := s.ctx
	stop := func() {}
	if ctx != nil {
		// Propagate caller cancellation into the browser context.
		var watchCancel context.CancelFunc
		runCtx, watchCancel = mergeCancel(s.ctx, ctx)
		stop = watchCancel
	}
	tctx, tcancel := context.WithTimeout(runCtx, timeout)
	return tctx, func() {
		tcancel()
		stop()
	}
}

// mergeCancel returns a child of base that is additionally cancelled when
// other is done.
func mergeCancel(base, other context.Context) (context.Context, context.CancelFunc) {
	merged, cancel := context.WithCancel(base)
	go func() {
		select {
		case <-other.Done():
			cancel()
		case <-merged.Done():
		}
	}()
	return merged, cancel
}

// IsCrash reports whether err indicates the browser process itself is gone,
// as opposed to a page-level failure. Chrome loss is batch-fatal; everything
// else is attempt-fatal at worst.
func IsCrash(err error) bool {
	if err == nil {
		return false
	}
	var crash *CrashError
	if errors.As(err, &crash) {
		return true
	}
	msg := err.Error()
	for _, marker := range []string{
		"chrome failed to start",
		"browser closed",
		"target closed",
		"connection closed",
		"websocket url timeout",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
