package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	err := New(CodeSelfJoin, "creator u1 cannot join challenge c1")
	if !errors.Is(err, ErrSelfJoin) {
		t.Fatal("expected self join match")
	}
	if errors.Is(err, ErrInvalidState) {
		t.Fatal("expected no invalid state match")
	}
}

func TestCodeOfWrapped(t *testing.T) {
	err := fmt.Errorf("join: %w", New(CodeInvalidState, "challenge is not open"))
	if got := CodeOf(err); got != CodeInvalidState {
		t.Fatalf("expected %s, got %s", CodeInvalidState, got)
	}
	if got := CodeOf(errors.New("boom")); got != CodeUnknown {
		t.Fatalf("expected unknown, got %s", got)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(CodeNotFound, "challenge lookup", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected cause in chain")
	}
	if err.Error() != "challenge lookup: connection reset" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
