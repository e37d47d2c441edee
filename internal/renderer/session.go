package renderer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// Session is a single reusable browser context. One Session is created per
// scrape run and shared by the profile fetch and every reply fetch; each
// Render opens its own tab and closes it before returning, so a failing
// extraction never leaks a page.
type Session struct {
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// SessionOptions configures the underlying Chrome process.
type SessionOptions struct {
	Headless   bool
	UserAgent  string
	ChromePath string
	Proxy      string
}

// NewSession launches Chrome and warms up one browser context.
func NewSession(opts SessionOptions) (*Session, error) {
	chromePath := opts.ChromePath
	if chromePath == "" {
		chromePath = FindChrome()
	}

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.Flag("disk-cache-size", "0"),
	}
	if chromePath != "" {
		allocOpts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(chromePath)}, allocOpts...)
	}
	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.Proxy))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Warm up so the first real fetch does not pay browser startup cost.
	if err := chromedp.Run(browserCtx, chromedp.Navigate("about:blank")); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser session: %w", err)
	}

	log.Debug().Str("chrome", chromePath).Bool("headless", opts.Headless).Msg("Browser session ready")

	return &Session{
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Render navigates a fresh tab to url, waits for readyMarker, and returns
// the final outer HTML. The tab is always closed before Render returns.
func (s *Session) Render(ctx context.Context, url, readyMarker string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if readyMarker == "" {
		readyMarker = "body"
	}

	start := time.Now()

	tabCtx, closeTab := chromedp.NewContext(s.browserCtx)
	defer closeTab()

	runCtx, cancel := context.WithTimeout(tabCtx, timeout)
	defer cancel()

	// Stop early if the caller's context dies first (run-level deadline).
	if deadline, ok := ctx.Deadline(); ok {
		var outerCancel context.CancelFunc
		runCtx, outerCancel = context.WithDeadline(runCtx, deadline)
		defer outerCancel()
	}

	var html string
	err := chromedp.Run(runCtx,
		network.Enable(),
		chromedp.Navigate(url),
		chromedp.WaitReady(readyMarker, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)

	elapsed := time.Since(start)
	if err != nil {
		mapped := classify(err)
		log.Debug().Str("url", url).Dur("elapsed", elapsed).Err(err).Msg("Render failed")
		return "", fmt.Errorf("render %s: %w", url, mapped)
	}

	log.Debug().Str("url", url).Dur("elapsed", elapsed).Int("bytes", len(html)).Msg("Render completed")
	return html, nil
}

// Close tears down the browser context and the Chrome process.
func (s *Session) Close() error {
	s.browserCancel()
	s.allocCancel()
	return nil
}

// classify maps raw chromedp failures onto the renderer error kinds.
// chromedp surfaces a missing readiness marker as a context deadline; any
// other failure is treated as a navigation problem.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(err.Error(), context.DeadlineExceeded.Error()) {
		return ErrRenderTimeout
	}
	return ErrNavigation
}
