package handlers

import (
	"context"
	"net/http"
	"strconv"

	"invoptimizer/internal/apperror"
	"invoptimizer/internal/common"
	"invoptimizer/internal/models"
	"invoptimizer/internal/services"

	"github.com/labstack/echo/v4"
)

const maxActivityLimit = 100

// DashboardService is the read side of the analytics service.
type DashboardService interface {
	Dashboard(ctx context.Context) (*models.Dashboard, error)
	Activity(ctx context.Context, limit int) ([]models.Activity, error)
	StockValues(ctx context.Context) ([]models.LocationStockValue, error)
}

// DashboardHandlers serves the overview figures and report exports.
type DashboardHandlers struct {
	dashboard DashboardService
	reports   services.ReportService
}

// NewDashboardHandlers wires the handlers. reports may be nil when object storage is
// not configured; the report endpoints then answer 503.
func NewDashboardHandlers(dashboard DashboardService, reports services.ReportService) *DashboardHandlers {
	return &DashboardHandlers{dashboard: dashboard, reports: reports}
}

func (h *DashboardHandlers) RegisterRoutes(g *echo.Group) {
	d := g.Group("/dashboard")
	d.GET("", h.GetDashboard)
	d.GET("/summary", h.GetSummary)
	d.GET("/distribution", h.GetDistribution)
	d.GET("/activity", h.GetActivity)
	d.GET("/stock-value", h.GetStockValue)
	d.POST("/reports", h.CreateReport)
	d.GET("/reports", h.ListReports)
	d.DELETE("/reports/:name", h.DeleteReport)
}

// DistributionResponse carries the shares and, when the total is zero, a warning
// explaining why every share is 0.
type DistributionResponse struct {
	Distribution  []models.LocationShare `json:"distribution"`
	TotalQuantity int                    `json:"total_quantity"`
	Warning       *common.ErrorBody      `json:"warning,omitempty"`
}

func (h *DashboardHandlers) GetDashboard(c echo.Context) error {
	dashboard, err := h.dashboard.Dashboard(c.Request().Context())
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, dashboard)
}

func (h *DashboardHandlers) GetSummary(c echo.Context) error {
	dashboard, err := h.dashboard.Dashboard(c.Request().Context())
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, dashboard.Summary)
}

func (h *DashboardHandlers) GetDistribution(c echo.Context) error {
	dashboard, err := h.dashboard.Dashboard(c.Request().Context())
	if err != nil {
		return common.SendError(c, err)
	}

	resp := DistributionResponse{Distribution: dashboard.Distribution}
	if resp.Distribution == nil {
		resp.Distribution = []models.LocationShare{}
	}
	for _, share := range dashboard.Distribution {
		resp.TotalQuantity += share.Quantity
	}
	if resp.TotalQuantity == 0 {
		resp.Warning = &common.ErrorBody{
			Code:    apperror.CodeDivisionUndefined,
			Message: "total inventory across all locations is zero",
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// GetActivity returns the feed; limit defaults to the feed's own default and is capped.
func (h *DashboardHandlers) GetActivity(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return common.SendValidationError(c, "limit", "limit must be a non-negative integer")
		}
		limit = min(v, maxActivityLimit)
	}

	activity, err := h.dashboard.Activity(c.Request().Context(), limit)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"activity": activity})
}

func (h *DashboardHandlers) GetStockValue(c echo.Context) error {
	values, err := h.dashboard.StockValues(c.Request().Context())
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"locations": values})
}

func (h *DashboardHandlers) CreateReport(c echo.Context) error {
	if h.reports == nil {
		return c.JSON(http.StatusServiceUnavailable, common.CreateErrorResponse("STORAGE_UNAVAILABLE", "Report storage is not configured", nil))
	}
	report, err := h.reports.Generate(c.Request().Context())
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, report)
}

func (h *DashboardHandlers) ListReports(c echo.Context) error {
	if h.reports == nil {
		return c.JSON(http.StatusServiceUnavailable, common.CreateErrorResponse("STORAGE_UNAVAILABLE", "Report storage is not configured", nil))
	}
	reports, err := h.reports.List(c.Request().Context())
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"reports": reports})
}

func (h *DashboardHandlers) DeleteReport(c echo.Context) error {
	if h.reports == nil {
		return c.JSON(http.StatusServiceUnavailable, common.CreateErrorResponse("STORAGE_UNAVAILABLE", "Report storage is not configured", nil))
	}
	if err := h.reports.Delete(c.Request().Context(), c.Param("name")); err != nil {
		return common.SendError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
