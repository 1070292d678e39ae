package bind

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/telecare/telecare/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/bindings", auth.RequireRole(string(RoleDoctor), string(RolePatient)))

	g.POST("/request", h.SendRequest)
	g.POST("/:id/accept", h.Accept)
	g.POST("/:id/reject", h.Reject)
	g.DELETE("/:id", h.Unbind)

	g.GET("/requests/pending", h.PendingRequests)
	g.GET("/requests/sent", h.SentRequests)
	g.GET("/links", h.ActiveLinks)
}

// SendRequestBody is the payload for POST /bindings/request. A patient sends
// a doctor's id and a doctor sends a patient's id; the server works out the
// sides from the authenticated role.
type SendRequestBody struct {
	UserID  uuid.UUID `json:"user_id"`
	Message string    `json:"message,omitempty"`
}

func (h *Handler) SendRequest(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var body SendRequestBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if body.UserID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}
	b, err := h.svc.SendRequest(c.Request().Context(), actor, body.UserID, body.Message)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) Accept(c echo.Context) error {
	return h.applyTransition(c, h.svc.Accept)
}

func (h *Handler) Reject(c echo.Context) error {
	return h.applyTransition(c, h.svc.Reject)
}

func (h *Handler) Unbind(c echo.Context) error {
	return h.applyTransition(c, h.svc.Unbind)
}

func (h *Handler) PendingRequests(c echo.Context) error {
	return h.listViews(c, h.svc.PendingRequestsFor)
}

func (h *Handler) SentRequests(c echo.Context) error {
	return h.listViews(c, h.svc.SentRequestsBy)
}

func (h *Handler) ActiveLinks(c echo.Context) error {
	return h.listViews(c, h.svc.ActiveLinksFor)
}

func (h *Handler) applyTransition(c echo.Context, fn func(ctx context.Context, actor Actor, bindID uuid.UUID) (*Bind, error)) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid bind id")
	}
	b, err := fn(c.Request().Context(), actor, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) listViews(c echo.Context, fn func(ctx context.Context, actor Actor) ([]*RequestView, error)) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	views, err := fn(c.Request().Context(), actor)
	if err != nil {
		return httpError(err)
	}
	if views == nil {
		views = []*RequestView{}
	}
	return c.JSON(http.StatusOK, views)
}

func actorFromContext(c echo.Context) (Actor, error) {
	id, ok := auth.UserID(c)
	if !ok {
		return Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return Actor{ID: id, Role: Role(auth.UserRole(c))}, nil
}

// httpError maps the error taxonomy to HTTP statuses. Infrastructure errors
// fall through as 500 so the caller can distinguish business-rule violations
// from transient faults.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidState):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
