package renderer

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassify_DeadlineIsRenderTimeout(t *testing.T) {
	err := classify(context.DeadlineExceeded)
	if !errors.Is(err, ErrRenderTimeout) {
		t.Errorf("expected ErrRenderTimeout, got %v", err)
	}

	// chromedp frequently wraps the deadline in its own message
	wrapped := classify(fmt.Errorf("waiting for selector: %w", context.DeadlineExceeded))
	if !errors.Is(wrapped, ErrRenderTimeout) {
		t.Errorf("expected ErrRenderTimeout for wrapped deadline, got %v", wrapped)
	}
}

func TestClassify_TransportIsNavigation(t *testing.T) {
	err := classify(errors.New("page load error net::ERR_NAME_NOT_RESOLVED"))
	if !errors.Is(err, ErrNavigation) {
		t.Errorf("expected ErrNavigation, got %v", err)
	}
}

func TestClassify_NilStaysNil(t *testing.T) {
	if err := classify(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
