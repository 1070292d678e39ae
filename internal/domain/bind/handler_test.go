package bind

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestContext(t *testing.T, method, path, body string, actor Actor) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("auth_user_id", actor.ID)
	c.Set("auth_user_role", string(actor.Role))
	return c, rec
}

func TestHandler_SendRequest(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)

	body := `{"user_id":"` + f.doctor.ID.String() + `","message":"hello"}`
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/bindings/request", body, f.patient)

	if err := h.SendRequest(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"PENDING"`) {
		t.Errorf("response must carry the pending bind: %s", rec.Body.String())
	}
}

func TestHandler_SendRequest_MissingUserID(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/bindings/request", `{}`, f.patient)

	err := h.SendRequest(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_Accept_StatusMapping(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	b, _ := f.svc.SendRequest(context.Background(), f.patient, f.doctor.ID, "")

	tests := []struct {
		name     string
		actor    Actor
		bindID   string
		wantCode int
	}{
		{"initiator self-accept", f.patient, b.ID.String(), http.StatusForbidden},
		{"unknown bind", f.doctor, uuid.NewString(), http.StatusNotFound},
		{"malformed id", f.doctor, "not-a-uuid", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(t, http.MethodPost, "/", "", tt.actor)
			c.SetParamNames("id")
			c.SetParamValues(tt.bindID)

			err := h.Accept(c)
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != tt.wantCode {
				t.Fatalf("expected %d, got %v", tt.wantCode, err)
			}
		})
	}

	// Counterpart accept succeeds with 200.
	c, rec := newTestContext(t, http.MethodPost, "/", "", f.doctor)
	c.SetParamNames("id")
	c.SetParamValues(b.ID.String())
	if err := h.Accept(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ACTIVE"`) {
		t.Errorf("response must carry the active bind: %s", rec.Body.String())
	}
}

func TestHandler_Transition_ConflictAndInvalidState(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	ctx := context.Background()

	b, _ := f.svc.SendRequest(ctx, f.patient, f.doctor.ID, "")

	// Duplicate request maps to 409.
	body := `{"user_id":"` + f.doctor.ID.String() + `"}`
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/bindings/request", body, f.patient)
	err := h.SendRequest(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}

	// Unbind of a pending row maps to 400.
	c, _ = newTestContext(t, http.MethodDelete, "/", "", f.doctor)
	c.SetParamNames("id")
	c.SetParamValues(b.ID.String())
	err = h.Unbind(c)
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_Unauthenticated(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bindings/links", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.ActiveLinks(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestHandler_ListEmptyIsArray(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/bindings/links", "", f.doctor)
	if err := h.ActiveLinks(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("empty list must serialize as [], got %s", got)
	}
}
