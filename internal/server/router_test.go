package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/session"
	"go-chi-calculator/internal/testutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	observability.Logger = zap.NewNop()
	if err := calculator.InitMetrics(); err != nil {
		t.Fatalf("initializing calculator metrics: %v", err)
	}
	return NewRouter(calculator.NewHandler(session.NewStore(0, nil), ","))
}

func TestNewRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	if body := w.Body.String(); body != "ok" {
		t.Fatalf("expected body %q, got %q", "ok", body)
	}
}

func TestNewRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
}

func TestNewRouterEvaluateSetsHeaderAndOmitsRequestIDInBody(t *testing.T) {
	router := newTestRouter(t)

	w := testutil.PostJSON(router, "/calculator/evaluate", `{"keys":["5","+","3","="]}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	requestID := w.Result().Header.Get("X-Request-ID")
	if requestID == "" {
		t.Fatal("expected X-Request-ID header to be set")
	}
	if _, err := uuid.Parse(requestID); err != nil {
		t.Fatalf("expected valid UUID in X-Request-ID, got %q: %v", requestID, err)
	}

	var payload map[string]any
	testutil.DecodeJSONBody(t, w.Result().Body, &payload)

	if _, ok := payload["request_id"]; ok {
		t.Fatal("did not expect request_id field in success JSON body")
	}

	result, ok := payload["result"].(map[string]any)
	if !ok || result["display"] != "8" {
		t.Fatalf("expected display 8, got %#v", payload["result"])
	}
}

func TestNewRouterSessionFlow(t *testing.T) {
	router := newTestRouter(t)

	w := testutil.PostJSON(router, "/calculator/sessions", "")
	testutil.CheckResponseCode(t, http.StatusCreated, w.Code)

	var created calculator.StateResponse
	testutil.DecodeJSONBody(t, w.Body, &created)

	w = testutil.PostJSON(router, "/calculator/sessions/"+created.ID+"/keys", `{"keys":["6","÷","0","="]}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var state calculator.StateResponse
	testutil.DecodeJSONBody(t, w.Body, &state)
	if state.Display != "0" {
		t.Fatalf("expected division by zero to display 0, got %q", state.Display)
	}
}
