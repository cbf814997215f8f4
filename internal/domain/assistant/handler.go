package assistant

import (
	"encoding/base64"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medilog/medilog/internal/platform/ai"
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
	api.POST("/assistant/session", h.StartSession)
	api.GET("/assistant/session", h.ListSessions)
	api.GET("/assistant/session/:id", h.GetSession)
	api.POST("/assistant/session/:id/message", h.PostMessage)
	api.POST("/assistant/session/:id/end", h.EndSession)
}

func ownerID(c echo.Context) (string, error) {
	id := auth.UserIDFromContext(c.Request().Context())
	if id == "" {
		return "", apperr.Unauthorized("authentication required")
	}
	return id, nil
}

func sessionID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid session id")
	}
	return id, nil
}

func (h *Handler) StartSession(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return respond.Error(c, err)
	}
	var body struct {
		DisclaimerAccepted bool `json:"disclaimerAccepted"`
	}
	if err := c.Bind(&body); err != nil {
		return respond.Error(c, apperr.Validation("invalid request body"))
	}
	session, err := h.svc.Start(c.Request().Context(), owner, body.DisclaimerAccepted)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.Created(c, echo.Map{"sessionId": session.ID})
}

func (h *Handler) ListSessions(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return respond.Error(c, err)
	}
	sessions, err := h.svc.ListSessions(c.Request().Context(), owner)
	if err != nil {
		return respond.Error(c, err)
	}
	if sessions == nil {
		sessions = []*SessionSummaryItem{}
	}
	return respond.OK(c, echo.Map{"sessions": sessions})
}

func (h *Handler) GetSession(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return respond.Error(c, err)
	}
	id, err := sessionID(c)
	if err != nil {
		return respond.Error(c, err)
	}
	session, err := h.svc.Get(c.Request().Context(), owner, id)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, echo.Map{"session": session})
}

func (h *Handler) PostMessage(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return respond.Error(c, err)
	}
	id, err := sessionID(c)
	if err != nil {
		return respond.Error(c, err)
	}
	var body struct {
		Message  string `json:"message"`
		Image    string `json:"image"`
		MimeType string `json:"mimeType"`
	}
	if err := c.Bind(&body); err != nil {
		return respond.Error(c, apperr.Validation("invalid request body"))
	}

	var image *ai.Image
	if body.Image != "" {
		data, err := base64.StdEncoding.DecodeString(body.Image)
		if err != nil {
			return respond.Error(c, apperr.Validation("image must be base64 encoded"))
		}
		mime := body.MimeType
		if mime == "" {
			mime = "image/jpeg"
		}
		image = &ai.Image{Data: data, MimeType: mime}
	}

	reply, redFlag, err := h.svc.PostMessage(c.Request().Context(), owner, id, body.Message, image)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, echo.Map{
		"reply":            reply,
		"redFlagTriggered": redFlag,
	})
}

func (h *Handler) EndSession(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return respond.Error(c, err)
	}
	id, err := sessionID(c)
	if err != nil {
		return respond.Error(c, err)
	}
	summary, err := h.svc.End(c.Request().Context(), owner, id)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, echo.Map{"summary": summary})
}
