package correlate

import (
	"errors"
	"testing"

	"github.com/thread-miners/scrape/pkg/models"
)

func items(codes ...string) []models.ThreadItem {
	out := make([]models.ThreadItem, len(codes))
	for i, c := range codes {
		out[i] = models.ThreadItem{Code: c, Username: "user-" + c}
	}
	return out
}

func TestSplit_TargetPresentOnce(t *testing.T) {
	primary, replies, err := Split(items("R1", "P1", "R2", "R3"), "P1")
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if primary.Code != "P1" {
		t.Errorf("primary = %q", primary.Code)
	}
	if len(replies) != 3 {
		t.Fatalf("expected 3 replies, got %d", len(replies))
	}
	// relative discovery order preserved
	for i, want := range []string{"R1", "R2", "R3"} {
		if replies[i].Code != want {
			t.Errorf("replies[%d] = %q, want %q", i, replies[i].Code, want)
		}
	}
}

func TestSplit_TargetAbsent(t *testing.T) {
	_, _, err := Split(items("R1", "R2"), "P9")
	if !errors.Is(err, ErrPrimaryNotFound) {
		t.Errorf("expected ErrPrimaryNotFound, got %v", err)
	}
}

func TestSplit_Empty(t *testing.T) {
	_, _, err := Split(nil, "P1")
	if !errors.Is(err, ErrPrimaryNotFound) {
		t.Errorf("expected ErrPrimaryNotFound on empty input, got %v", err)
	}
}

func TestFilterOwn(t *testing.T) {
	all := []models.ThreadItem{
		{Code: "A", Username: "alice"},
		{Code: "B", Username: "bob"},
		{Code: "C", Username: "alice"},
	}
	own := FilterOwn(all, "alice")
	if len(own) != 2 || own[0].Code != "A" || own[1].Code != "C" {
		t.Errorf("unexpected own replies: %+v", own)
	}
	if got := FilterOwn(all, "carol"); len(got) != 0 {
		t.Errorf("expected none for carol, got %+v", got)
	}
}
