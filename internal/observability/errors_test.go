package observability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecordErrorWritesStandardizedErrorResponse(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-1")
	span := trace.SpanFromContext(ctx)
	logger := zap.NewNop()

	counter, err := otel.Meter("test").Int64Counter("test.errors.total")
	if err != nil {
		t.Fatalf("creating counter: %v", err)
	}

	w := httptest.NewRecorder()

	RecordError(
		ctx,
		span,
		logger,
		counter,
		"keys",
		"invalid request body",
		errors.New("bad json"),
		http.StatusBadRequest,
		w,
	)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected Content-Type application/json, got %q", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}

	if got := body["error"]; got != "invalid request body" {
		t.Fatalf("expected error %q, got %q", "invalid request body", got)
	}

	if _, ok := body["request_id"]; ok {
		t.Fatal("did not expect request_id field in JSON body")
	}
}

func TestRecordErrorLogsOperationAndStatus(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	ctx := ContextWithRequestID(context.Background(), "req-2")

	counter, err := otel.Meter("test").Int64Counter("test.errors.total")
	if err != nil {
		t.Fatalf("creating counter: %v", err)
	}

	RecordError(ctx, trace.SpanFromContext(ctx), zap.New(core), counter,
		"keys", "session not found", errors.New("missing"), http.StatusNotFound, httptest.NewRecorder())

	entries := logs.FilterMessage("session not found").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["operation"] != "keys" {
		t.Fatalf("expected operation %q, got %#v", "keys", fields["operation"])
	}
	if fields["status"] != int64(http.StatusNotFound) {
		t.Fatalf("expected status %d, got %#v", http.StatusNotFound, fields["status"])
	}
	if fields["request_id"] != "req-2" {
		t.Fatalf("expected request_id %q, got %#v", "req-2", fields["request_id"])
	}
}
