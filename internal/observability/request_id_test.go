package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestNewRequestIDReturnsUUID(t *testing.T) {
	id := NewRequestID()
	if id == "" {
		t.Fatal("expected non-empty request id")
	}

	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected valid UUID, got %q: %v", id, err)
	}
}

func TestRequestIDContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	want := "abc-123"

	ctx = ContextWithRequestID(ctx, want)
	got := RequestIDFromContext(ctx)

	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRequestIDFromContextWhenMissingOrWrongType(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		got := RequestIDFromContext(context.Background())
		if got != "" {
			t.Fatalf("expected empty string, got %q", got)
		}
	})

	t.Run("wrong type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), RequestIDKey, 42)
		got := RequestIDFromContext(ctx)
		if got != "" {
			t.Fatalf("expected empty string, got %q", got)
		}
	})
}

func TestRequestIDForHeader(t *testing.T) {
	supplied := "6f1c2b0e-8a4d-4c3e-9b7a-2d5e1f0a3b4c"

	tests := []struct {
		name   string
		header string
		reuse  bool
	}{
		{name: "valid uuid reused", header: supplied, reuse: true},
		{name: "garbage replaced", header: "not-a-uuid", reuse: false},
		{name: "missing generated", header: "", reuse: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/calculator/sessions", nil)
			if tc.header != "" {
				r.Header.Set(RequestIDHeader, tc.header)
			}

			got := requestIDFor(r)
			if tc.reuse && got != supplied {
				t.Fatalf("expected %q to be reused, got %q", supplied, got)
			}
			if !tc.reuse && got == tc.header {
				t.Fatalf("expected header %q to be replaced", tc.header)
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("expected UUID, got %q: %v", got, err)
			}
		})
	}
}
