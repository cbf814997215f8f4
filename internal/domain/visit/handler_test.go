package visit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/medilog/medilog/internal/platform/auth"
	"github.com/medilog/medilog/pkg/respond"
)

func newHandlerContext(t *testing.T, method, target, body, userID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if userID != "" {
		req = req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, userID))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) respond.Envelope {
	t.Helper()
	var env respond.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestHandler_CreateVisit(t *testing.T) {
	h := NewHandler(newTestService(newMockRepo(), nil))

	c, rec := newHandlerContext(t, http.MethodPost, "/api/visits",
		`{"chiefComplaint":"persistent cough","doctorName":"Dr. Rao"}`, "u1")
	if err := h.CreateVisit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestHandler_CreateVisit_Unauthorized(t *testing.T) {
	h := NewHandler(newTestService(newMockRepo(), nil))

	c, rec := newHandlerContext(t, http.MethodPost, "/api/visits",
		`{"chiefComplaint":"cough"}`, "")
	if err := h.CreateVisit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Success {
		t.Fatal("expected failure envelope")
	}
}

func TestHandler_UpdateVisit_Locked(t *testing.T) {
	repo := newMockRepo()
	h := NewHandler(newTestService(repo, nil))
	v := seedVisit(t, repo, "u1", StatusCompleted)

	c, rec := newHandlerContext(t, http.MethodPut, "/api/visits/"+v.ID.String(),
		`{"chiefComplaint":"migraine"}`, "u1")
	c.SetParamNames("id")
	c.SetParamValues(v.ID.String())

	if err := h.UpdateVisit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !strings.Contains(env.Error, "locked") {
		t.Fatalf("error = %q", env.Error)
	}
}

func TestHandler_GetVisit_InvalidID(t *testing.T) {
	h := NewHandler(newTestService(newMockRepo(), nil))

	c, rec := newHandlerContext(t, http.MethodGet, "/api/visits/not-a-uuid", "", "u1")
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	if err := h.GetVisit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_SavePrescription(t *testing.T) {
	repo := newMockRepo()
	h := NewHandler(newTestService(repo, nil))
	v := seedVisit(t, repo, "u1", StatusAwaitingDoctor)

	c, rec := newHandlerContext(t, http.MethodPut, "/api/visits/"+v.ID.String()+"/prescription",
		`{"prescribedMedicines":[{"medicineName":"Azithromycin","dosage":"500mg"}]}`, "u1")
	c.SetParamNames("id")
	c.SetParamValues(v.ID.String())

	if err := h.SavePrescription(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	stored, err := repo.GetByOwner(context.Background(), v.ID, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != StatusCompleted {
		t.Fatalf("status = %q, want %q", stored.Status, StatusCompleted)
	}
}

func TestHandler_GenerateSummary_Upstream503(t *testing.T) {
	h := NewHandler(newTestService(newMockRepo(), &stubAI{err: errors.New("quota exceeded")}))

	c, rec := newHandlerContext(t, http.MethodPost, "/api/visits/generate-summary",
		`{"chiefComplaint":"sore throat"}`, "u1")
	if err := h.GenerateSummary(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
