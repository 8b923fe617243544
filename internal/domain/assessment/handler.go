package assessment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/healthd/healthd/internal/domain/engine"
	"github.com/healthd/healthd/internal/platform/auth"
	"github.com/healthd/healthd/pkg/pagination"
)

// Handler provides HTTP handlers for the assessment domain.
type Handler struct {
	svc *Service
}

// NewHandler creates a new assessment domain handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers all assessment domain routes.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/assessments", h.RunAssessment)
	api.GET("/assessments", h.ListAssessments)
	api.GET("/assessments/:id", h.GetAssessment)
}

func (h *Handler) RunAssessment(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	if userID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	var m engine.Measurement
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.Run(c.Request().Context(), userID, m)
	if err != nil {
		if errors.Is(err, ErrInvalidMeasurement) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		// Storage faults are logged by the service; the client only
		// learns that the assessment was not saved.
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save assessment")
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) ListAssessments(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	if userID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	pg := pagination.FromContext(c)
	records, total, err := h.svc.History(c.Request().Context(), userID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load history")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(records, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetAssessment(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	if userID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rec, err := h.svc.Get(c.Request().Context(), userID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "assessment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load assessment")
	}
	return c.JSON(http.StatusOK, rec)
}
