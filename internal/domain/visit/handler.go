package visit

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medilog/medilog/internal/platform/auth"
	"github.com/medilog/medilog/pkg/apperr"
	"github.com/medilog/medilog/pkg/pagination"
	"github.com/medilog/medilog/pkg/respond"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/visits", h.CreateVisit)
	api.GET("/visits", h.ListVisits)
	api.POST("/visits/generate-summary", h.GenerateSummary)
	api.GET("/visits/:id", h.GetVisit)
	api.PUT("/visits/:id", h.UpdateVisit)
	api.DELETE("/visits/:id", h.DeleteVisit)
	api.PUT("/visits/:id/prescription", h.SavePrescription)
	api.POST("/visits/:id/upload-prescription", h.UploadPrescription)
}

func ownerID(c echo.Context) (string, error) {
	id := auth.UserIDFromContext(c.Request().Context())
	if id == "" {
		return "", apperr.Unauthorized("authentication required")
	}
	return id, nil
}

func visitID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid visit id")
	}
	return id, nil
}

func (h *Handler) CreateVisit(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return respond.Error(c, err)
	}
	var v Visit
	if err := c.Bind(&v); err != nil {
		return respond.Error(c, apperr.Validation("invalid request body"))
	}
	if err := h.svc.Create(c.Request().Context(), owner, &v); err != nil {
		return respond.Error(c, err)
	}
	return respond.Created(c, &v)
}

func (h *Handler) ListVisits(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return respond.Error(c, err)
	}
	p := pagination.FromContext(c)
	f := ListFilter{
		Search:    c.QueryParam("search"),
		Specialty: c.QueryParam("specialty"),
		DateFrom:  c.QueryParam("dateFrom"),
		DateTo:    c.QueryParam("dateTo"),
	}
	visits, total, err := h.svc.List(c.Request().Context(), owner, f, p.Limit, p.Offset)
	if err != nil {
		return respond.Error(c, err)
	}
	if visits == nil {
		visits = []*Visit{}
	}
	return respond.OK(c, echo.Map{
		"visits":  visits,
		"total":   total,
		"limit":   p.Limit,
		"offset":  p.Offset,
		"hasNext": p.HasNext(total),
	})
}

func (h *Handler) GetVisit(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return respond.Error(c, err)
	}
	id, err := visitID(c)
	if err != nil {
		return respond.Error(c, err)
	}
	v, err := h.svc.Get(c.Request().Context(), owner, id)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, v)
}

func (h *Handler) UpdateVisit(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return respond.Error(c, err)
	}
	id, err := visitID(c)
	if err != nil {
		return respond.Error(c, err)
	}
	var patch Patch
	if err := c.Bind(&patch); err != nil {
		return respond.Error(c, apperr.Validation("invalid request body"))
	}
	v, err := h.svc.Update(c.Request().Context(), owner, id, patch)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, v)
}

func (h *Handler) DeleteVisit(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return respond.Error(c, err)
	}
	id, err := visitID(c)
	if err != nil {
		return respond.Error(c, err)
	}
	if err := h.svc.Delete(c.Request().Context(), owner, id); err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, echo.Map{"message": "Visit deleted successfully"})
}

func (h *Handler) SavePrescription(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return respond.Error(c, err)
	}
	id, err := visitID(c)
	if err != nil {
		return respond.Error(c, err)
	}
	var body struct {
		PrescribedMedicines []Medicine `json:"prescribedMedicines"`
	}
	if err := c.Bind(&body); err != nil {
		return respond.Error(c, apperr.Validation("invalid request body"))
	}
	v, err := h.svc.SavePrescription(c.Request().Context(), owner, id, body.PrescribedMedicines)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, v)
}

func (h *Handler) UploadPrescription(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return respond.Error(c, err)
	}
	id, err := visitID(c)
	if err != nil {
		return respond.Error(c, err)
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return respond.Error(c, apperr.Validation("image file is required"))
	}
	src, err := fh.Open()
	if err != nil {
		return respond.Error(c, apperr.Validation("could not read uploaded file"))
	}
	defer src.Close()

	contentType := fh.Header.Get("Content-Type")
	v, err := h.svc.AttachPrescriptionImage(c.Request().Context(), owner, id, contentType, src, fh.Size)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, v)
}

func (h *Handler) GenerateSummary(c echo.Context) error {
	if _, err := ownerID(c); err != nil {
		return respond.Error(c, err)
	}
	var req SummaryRequest
	if err := c.Bind(&req); err != nil {
		return respond.Error(c, apperr.Validation("invalid request body"))
	}
	summary, err := h.svc.GenerateSummary(c.Request().Context(), req)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, echo.Map{"summary": summary})
}
