package apierr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindSurvivesWrapping(t *testing.T) {
	base := errors.New("boom")
	err := New(base, KindAuth, "please log in to continue", WithStatus(401))

	// Behaviors must survive further fmt.Errorf wrapping by callers.
	err = fmt.Errorf("fetching profile: %w", err)

	if !IsKind(err, KindAuth) {
		t.Fatalf("expected auth kind, got %v", err)
	}
	if msg, ok := Message(err); !ok || msg != "please log in to continue" {
		t.Fatalf("expected the user message, got %q", msg)
	}
	if status, ok := Status(err); !ok || status != 401 {
		t.Fatalf("expected status 401, got %d", status)
	}
	if !errors.Is(err, base) {
		t.Fatal("the original error must stay in the chain")
	}
}

func TestKindOfPlainError(t *testing.T) {
	kind, ok := KindOf(errors.New("plain"))
	if ok {
		t.Fatal("plain errors carry no kind")
	}
	if kind != KindServer {
		t.Fatalf("expected the server fallback, got %s", kind)
	}
	if _, ok := Message(errors.New("plain")); ok {
		t.Fatal("plain errors carry no user message")
	}
}

func TestDefaultMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind Kind
	}{
		{"auth", Auth(errors.New("x"), ""), KindAuth},
		{"validation", Validation(errors.New("x"), ""), KindValidation},
		{"not found", NotFound(errors.New("x"), ""), KindNotFound},
		{"payment", Payment(errors.New("x"), ""), KindPayment},
		{"server", Server(errors.New("x"), ""), KindServer},
		{"network", Network(errors.New("x")), KindNetwork},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !IsKind(tc.err, tc.kind) {
				t.Fatalf("expected kind %s", tc.kind)
			}
			if msg, ok := Message(tc.err); !ok || msg == "" {
				t.Fatal("expected a default user message")
			}
		})
	}
}

func TestExplicitMessageWins(t *testing.T) {
	err := Validation(errors.New("x"), "Already enrolled in this course")
	if msg, _ := Message(err); msg != "Already enrolled in this course" {
		t.Fatalf("expected the explicit message, got %q", msg)
	}
}
