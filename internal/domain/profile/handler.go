package profile

import (
	"github.com/labstack/echo/v4"

	"github.com/medilog/medilog/internal/platform/auth"
	"github.com/medilog/medilog/pkg/apperr"
	"github.com/medilog/medilog/pkg/respond"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/user/profile", h.GetProfile)
	api.PUT("/user/profile", h.UpdateProfile)
	api.POST("/user/onboarding", h.Onboard)
}

func ownerID(c echo.Context) (string, error) {
	id := auth.UserIDFromContext(c.Request().Context())
	if id == "" {
		return "", apperr.Unauthorized("authentication required")
	}
	return id, nil
}

func (h *Handler) GetProfile(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return respond.Error(c, err)
	}
	u, err := h.svc.Get(c.Request().Context(), owner)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, echo.Map{"user": u})
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return respond.Error(c, err)
	}
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return respond.Error(c, apperr.Validation("invalid request body"))
	}
	u, err := h.svc.Update(c.Request().Context(), owner, req)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, echo.Map{"user": u})
}

func (h *Handler) Onboard(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return respond.Error(c, err)
	}
	var req OnboardingRequest
	if err := c.Bind(&req); err != nil {
		return respond.Error(c, apperr.Validation("invalid request body"))
	}
	u, err := h.svc.Onboard(c.Request().Context(), owner, req)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, echo.Map{"user": u})
}
