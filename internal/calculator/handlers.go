package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/session"
)

const (
	maxKeysPerRequest = 1000
	maxBodyBytes      = 64 << 10
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// Handler is the HTTP shell over calculator engines. Session engines live in
// store; display values are rendered with separator.
type Handler struct {
	store     *session.Store
	separator string
}

func NewHandler(store *session.Store, separator string) *Handler {
	return &Handler{store: store, separator: separator}
}

// ---------------------------------------------------------------------------
// Handlers: session lifecycle
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.create")
	defer span.End()

	sess := h.store.Create()
	sessionsCounter.Add(ctx, 1)

	var state engine.State
	sess.View(func(e *engine.Engine) { state = e.Snapshot() })

	span.SetAttributes(attribute.String("calculator.session.id", sess.ID))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator session created",
		zap.String("session_id", sess.ID),
		zap.Int("active_sessions", h.store.Len()),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusCreated, renderState(sess.ID, state, h.separator))
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.get")
	defer span.End()

	sess, ok := h.lookup(ctx, span, logger, w, r, "get")
	if !ok {
		return
	}

	var state engine.State
	sess.View(func(e *engine.Engine) { state = e.Snapshot() })

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, renderState(sess.ID, state, h.separator))
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "calculator.session.delete",
		trace.WithAttributes(attribute.String("calculator.session.id", id)),
	)
	defer span.End()

	if err := h.store.Delete(id); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "delete", "session not found", err, http.StatusNotFound, w)
		return
	}

	span.SetStatus(codes.Ok, "")

	logger.Info("calculator session deleted",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Handlers: key presses
// ---------------------------------------------------------------------------

// PressKeys handles POST /calculator/sessions/{id}/keys. Applies each key in
// order to the session's engine, with a child span per key. No key is applied
// unless every label parses.
func (h *Handler) PressKeys(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.keys",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	sess, ok := h.lookup(ctx, span, logger, w, r, "keys")
	if !ok {
		return
	}

	keys, ok := h.decodeKeys(ctx, span, logger, w, r, "keys")
	if !ok {
		return
	}

	var steps []KeyResult
	state, err := sess.Do(func(e *engine.Engine) error {
		var err error
		steps, err = h.applyKeys(ctx, e, keys)
		return err
	})
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "keys", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	h.recordResult(ctx, span, state)

	logger.Info("calculator keys applied",
		zap.String("session_id", sess.ID),
		zap.Int("keys", len(steps)),
		zap.String("display", state.DisplayValue),
		zap.String("operator", state.Operator.String()),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, renderState(sess.ID, state, h.separator))
}

// Evaluate handles POST /calculator/evaluate. Runs the keys against a fresh
// engine and returns the display after every key.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	keys, ok := h.decodeKeys(ctx, span, logger, w, r, "evaluate")
	if !ok {
		return
	}

	e := engine.New()
	steps, err := h.applyKeys(ctx, e, keys)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	state := e.Snapshot()
	h.recordResult(ctx, span, state)

	logger.Info("calculator keys evaluated",
		zap.Int("keys", len(steps)),
		zap.String("display", state.DisplayValue),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, EvaluateResponse{
		Steps:  steps,
		Result: renderState("", state, h.separator),
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (h *Handler) lookup(ctx context.Context, span trace.Span, logger *zap.Logger, w http.ResponseWriter, r *http.Request, opName string) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("calculator.session.id", id))

	sess, err := h.store.Get(id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, session.ErrNotFound) {
			status = http.StatusNotFound
		}
		observability.RecordError(ctx, span, logger, errorCounter, opName, "session not found", err, status, w)
		return nil, false
	}
	return sess, true
}

func (h *Handler) decodeKeys(ctx context.Context, span trace.Span, logger *zap.Logger, w http.ResponseWriter, r *http.Request, opName string) ([]engine.Key, bool) {
	var req KeysRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return nil, false
	}

	switch {
	case len(req.Keys) == 0:
		observability.RecordError(ctx, span, logger, errorCounter, opName, "no keys provided", errors.New("keys array is empty"), http.StatusBadRequest, w)
		return nil, false
	case len(req.Keys) > maxKeysPerRequest:
		observability.RecordError(ctx, span, logger, errorCounter, opName, "too many keys",
			fmt.Errorf("%d keys exceeds limit of %d", len(req.Keys), maxKeysPerRequest), http.StatusBadRequest, w)
		return nil, false
	}

	keys, err := engine.ParseKeys(req.Keys)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusBadRequest, w)
		return nil, false
	}

	span.SetAttributes(attribute.Int("calculator.keys.count", len(keys)))
	return keys, true
}

// applyKeys presses each key in turn, creating a child span per key.
func (h *Handler) applyKeys(ctx context.Context, e *engine.Engine, keys []engine.Key) ([]KeyResult, error) {
	steps := make([]KeyResult, 0, len(keys))

	for i, k := range keys {
		_, keySpan := tracer.Start(ctx, fmt.Sprintf("calculator.key.%d.%s", i, k.Kind),
			trace.WithAttributes(
				attribute.Int("calculator.key.index", i),
				attribute.String("calculator.key.label", k.String()),
				attribute.String("calculator.display.before", e.Snapshot().DisplayValue),
			),
		)

		start := time.Now()
		err := e.Press(k)
		elapsed := float64(time.Since(start).Nanoseconds()) / 1e6 // ms

		if err != nil {
			keySpan.RecordError(err)
			keySpan.SetStatus(codes.Error, err.Error())
			keySpan.End()
			return steps, fmt.Errorf("key %d: %w", i, err)
		}

		attrs := metric.WithAttributes(attribute.String("key", k.Kind.String()))
		keysCounter.Add(ctx, 1, attrs)
		keyHistogram.Record(ctx, elapsed, attrs)

		display := e.Snapshot().DisplayValue
		keySpan.SetAttributes(attribute.String("calculator.display.after", display))
		keySpan.SetStatus(codes.Ok, "")
		keySpan.End()

		steps = append(steps, KeyResult{
			Key:     k.String(),
			Display: engine.LocalizeDisplay(display, h.separator),
		})
	}

	return steps, nil
}

func (h *Handler) recordResult(ctx context.Context, span trace.Span, state engine.State) {
	if v := engine.ParseNumber(state.DisplayValue); !math.IsNaN(v) && !math.IsInf(v, 0) {
		resultGauge.Record(ctx, v)
		span.SetAttributes(attribute.Float64("calculator.result", v))
	}
	span.AddEvent("keys.applied", trace.WithAttributes(
		attribute.String("display", state.DisplayValue),
		attribute.String("operator", state.Operator.String()),
	))
	span.SetStatus(codes.Ok, "")
}
