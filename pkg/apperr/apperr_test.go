package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", NotFound("visit not found"), KindNotFound},
		{"validation", Validation("bad input"), KindValidation},
		{"policy", PolicyViolation("locked"), KindPolicyViolation},
		{"wrapped in fmt", fmt.Errorf("handler: %w", Unauthorized("no token")), KindUnauthorized},
		{"plain error", errors.New("boom"), KindInternal},
		{"nil", nil, KindInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Errorf("KindOf() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMessageHidesUnclassified(t *testing.T) {
	if got := Message(errors.New("pq: connection refused")); got != "internal server error" {
		t.Errorf("unclassified message leaked: %q", got)
	}
	if got := Message(Validation("age must be between 0 and 150")); got != "age must be between 0 and 150" {
		t.Errorf("Message() = %q", got)
	}
}

func TestWrapPreservesChain(t *testing.T) {
	cause := errors.New("connection reset")
	err := ExternalService("failed to generate summary", cause)
	if !errors.Is(err, cause) {
		t.Error("wrapped cause lost from chain")
	}
	if KindOf(err) != KindExternalService {
		t.Errorf("kind = %v", KindOf(err))
	}
}

func TestErrorString(t *testing.T) {
	if got := New(KindNotFound, "gone").Error(); got != "gone" {
		t.Errorf("Error() = %q", got)
	}
	wrapped := Wrap(KindInternal, "query failed", errors.New("timeout"))
	if got := wrapped.Error(); got != "query failed: timeout" {
		t.Errorf("Error() = %q", got)
	}
}
