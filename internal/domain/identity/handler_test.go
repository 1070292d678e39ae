package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestHandler_ListPatients(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewService(repo)
	ctx := context.Background()

	svc.CreateUser(ctx, &User{Role: RolePatient, Name: "Ana Silva", Email: "ana@example.com"})
	svc.CreateUser(ctx, &User{Role: RoleDoctor, Name: "Dr. Chen", Email: "chen@example.com", Specialty: strPtr("cardiology")})

	h := NewHandler(svc)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListPatients(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `"total":1`) {
		t.Errorf("expected one patient in envelope: %s", body)
	}
	if !strings.Contains(body, "Ana Silva") || strings.Contains(body, "Dr. Chen") {
		t.Errorf("patient listing must carry patients only: %s", body)
	}
}
