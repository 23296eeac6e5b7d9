package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeEmptyEdges, "layout requires at least %d edge", 1)

	if got := err.Error(); got != "EMPTY_EDGE_LIST: layout requires at least 1 edge" {
		t.Errorf("Error() = %q", got)
	}
	if !Is(err, ErrCodeEmptyEdges) {
		t.Error("Is(err, ErrCodeEmptyEdges) = false")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is matched the wrong code")
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(cause, ErrCodeInternal, "write cache entry")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause lost from the error chain")
	}
	if got := err.Error(); got != "INTERNAL_ERROR: write cache entry: disk full" {
		t.Errorf("Error() = %q", got)
	}
	if !Is(err, ErrCodeInternal) {
		t.Error("Is(err, ErrCodeInternal) = false")
	}
}

func TestIsThroughWrapping(t *testing.T) {
	inner := New(ErrCodeMissingPositions, "node a has no position")
	outer := fmt.Errorf("compute layout: %w", inner)

	if !Is(outer, ErrCodeMissingPositions) {
		t.Error("Is failed to unwrap fmt.Errorf chain")
	}
	if got := GetCode(outer); got != ErrCodeMissingPositions {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeMissingPositions)
	}
}

func TestGetCodePlainError(t *testing.T) {
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"Structured", New(ErrCodeInvalidInput, "bad graph"), "bad graph"},
		{"Plain", stderrors.New("plain failure"), "plain failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage = %q, want %q", got, tt.want)
			}
		})
	}
}
