package statistics

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/healthd/healthd/internal/domain/engine"
)

// Handler provides HTTP handlers for the statistics module.
type Handler struct {
	svc *Service
}

// NewHandler creates a new statistics handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the statistics routes.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/statistics/summary", h.GetSummary)
	api.GET("/statistics/compare", h.Compare)
	api.POST("/statistics/dataset", h.UploadDataset)
}

func (h *Handler) GetSummary(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Summary())
}

func (h *Handler) Compare(c echo.Context) error {
	bmi, err := strconv.ParseFloat(c.QueryParam("bmi"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid bmi")
	}
	age, err := strconv.Atoi(c.QueryParam("age"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid age")
	}
	cmp, err := h.svc.Compare(bmi, age, engine.Gender(c.QueryParam("gender")))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, cmp)
}

// UploadDataset accepts a CSV body (or a multipart "file" part) and
// replaces the reference dataset.
func (h *Handler) UploadDataset(c echo.Context) error {
	body := c.Request().Body
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		defer f.Close()
		body = f
	}
	n, err := h.svc.ReplaceDataset(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"samples": n})
}
