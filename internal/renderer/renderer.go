// Package renderer drives a headless Chrome session to produce fully
// rendered HTML snapshots of JavaScript-heavy pages.
package renderer

import (
	"context"
	"errors"
	"time"
)

// Error kinds callers distinguish with errors.Is.
var (
	// ErrRenderTimeout means the page did not reach its readiness marker
	// before the deadline.
	ErrRenderTimeout = errors.New("render timeout")

	// ErrNavigation means the navigation itself failed (transport, DNS,
	// browser crash) before readiness could even be evaluated.
	ErrNavigation = errors.New("navigation failed")
)

// Renderer renders a URL and returns the final HTML once readyMarker
// (a CSS selector) is present in the DOM.
type Renderer interface {
	Render(ctx context.Context, url, readyMarker string, timeout time.Duration) (string, error)
}
