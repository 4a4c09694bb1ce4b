package labs

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carepilot/carepilot/internal/platform/auth"
	"github.com/carepilot/carepilot/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/labs", auth.RequireRole("patient", "provider"))
	g.GET("/reports", h.ListReports)
	g.GET("/reports/:docId", h.GetReport)
	g.GET("/parameters", h.ListParameters)
	g.GET("/timeseries", h.Timeseries)
}

func (h *Handler) ListReports(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "userId is required")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListReports(c.Request().Context(), userID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetReport(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "userId is required")
	}
	report, err := h.svc.GetReport(c.Request().Context(), userID, c.Param("docId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "lab report not found")
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) ListParameters(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "userId is required")
	}
	params, err := h.svc.ListParameters(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"parameters": params})
}

func (h *Handler) Timeseries(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "userId is required")
	}
	parameter := c.QueryParam("parameter")
	if parameter == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "parameter is required")
	}
	points, err := h.svc.Timeseries(c.Request().Context(), userID, parameter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"parameter":  parameter,
		"timeseries": points,
	})
}
