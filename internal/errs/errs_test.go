package errs

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindOf(t *testing.T) {
	storage := New(KindStorage, "connection reset")
	wrapped := fmt.Errorf("outer: %w", storage)

	if KindOf(storage) != KindStorage {
		t.Error("direct error lost its kind")
	}
	if KindOf(wrapped) != KindStorage {
		t.Error("wrapped error lost its kind")
	}
	if KindOf(errors.New("plain")) != KindInternal {
		t.Error("unclassified error should default to internal")
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindValidation, false},
		{KindNotFound, false},
		{KindStorage, true},
		{KindInternal, true},
	}
	for _, tt := range tests {
		if got := Retryable(New(tt.kind, "x")); got != tt.want {
			t.Errorf("Retryable(%v) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestSanitize_Paths(t *testing.T) {
	got := Sanitize("open /home/user/vault/trackers/acme.md: permission denied")
	if strings.Contains(got, "/home/user") {
		t.Errorf("absolute path leaked: %q", got)
	}
	if !strings.Contains(got, "acme.md") {
		t.Errorf("basename should survive: %q", got)
	}
}

func TestSanitize_QueryText(t *testing.T) {
	got := Sanitize(`exec failed: UPDATE jobs SET status = $1 WHERE id = $2`)
	if strings.Contains(got, "jobs SET") {
		t.Errorf("query text leaked: %q", got)
	}
	if !strings.Contains(got, "[query omitted]") {
		t.Errorf("expected omission marker: %q", got)
	}
}

func TestSanitize_PlainMessageUntouched(t *testing.T) {
	msg := "batch exceeds maximum size of 100"
	if got := Sanitize(msg); got != msg {
		t.Errorf("plain message changed: %q", got)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(KindStorage, cause, "commit failed")
	if !errors.Is(err, cause) {
		t.Error("Wrap should preserve the cause chain")
	}
}
