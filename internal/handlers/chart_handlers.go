package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/epeers/reservoirs/internal/models"
	"github.com/epeers/reservoirs/internal/services"
	"github.com/epeers/reservoirs/internal/timeseries"
)

// ChartHandler serves the chart-ready views.
type ChartHandler struct {
	seriesSvc *services.SeriesService
	basinSvc  *services.BasinService
	statusSvc *services.StatusService
}

// NewChartHandler creates a new ChartHandler
func NewChartHandler(seriesSvc *services.SeriesService, basinSvc *services.BasinService, statusSvc *services.StatusService) *ChartHandler {
	return &ChartHandler{
		seriesSvc: seriesSvc,
		basinSvc:  basinSvc,
		statusSvc: statusSvc,
	}
}

// GetSeries handles GET /api/series/:id
// @Summary Per-reservoir chart
// @Description Normalized readings inside the default or requested window, plus the latest reading.
// @Description Explicit dates take precedence over policy and are clamped to the available data.
// @Tags charts
// @Produce json
// @Param id path string true "Reservoir id (clavesih)"
// @Param policy query string false "lastYear, lastMonth or fullRange"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} models.SeriesResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/series/{id} [get]
func (h *ChartHandler) GetSeries(c *gin.Context) {
	var req services.SeriesRequest
	if p := c.Query("policy"); p != "" {
		policy, err := timeseries.ParseWindowPolicy(p)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "bad_request",
				Message: err.Error(),
			})
			return
		}
		req.Policy = policy
	}
	start, end, ok := dateRange(c)
	if !ok {
		return
	}
	req.StartDate, req.EndDate = start, end

	ctx, wc := services.NewWarningContext(c.Request.Context())
	resp, err := h.seriesSvc.GetSeries(ctx, c.Param("id"), req)
	if err != nil {
		viewError(c, err)
		return
	}
	resp.Warnings = wc.GetWarnings()
	c.JSON(http.StatusOK, resp)
}

// GetBasin handles GET /api/basin
// @Summary Basin chart
// @Description Reference reservoir volume against the summed volume of its companions, aligned by date.
// @Tags charts
// @Produce json
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} models.BasinResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/basin [get]
func (h *ChartHandler) GetBasin(c *gin.Context) {
	start, end, ok := dateRange(c)
	if !ok {
		return
	}

	ctx, wc := services.NewWarningContext(c.Request.Context())
	resp, err := h.basinSvc.GetBasin(ctx, start, end)
	if err != nil {
		viewError(c, err)
		return
	}
	resp.Warnings = wc.GetWarnings()
	c.JSON(http.StatusOK, resp)
}

// GetStatus handles GET /api/status/:id
// @Summary Daily status
// @Description The two most recent readings of a reservoir and the change between them:
// @Description volume in hm³, level in cm and points of NAMO capacity, plus a ready-to-post message.
// @Tags charts
// @Produce json
// @Param id path string true "Reservoir id (clavesih)"
// @Success 200 {object} models.StatusResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/status/{id} [get]
func (h *ChartHandler) GetStatus(c *gin.Context) {
	h.status(c, c.Param("id"))
}

// GetBasinStatus handles GET /api/basin/status
// @Summary Reference reservoir status
// @Description Daily status of the basin reference reservoir.
// @Tags charts
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/basin/status [get]
func (h *ChartHandler) GetBasinStatus(c *gin.Context) {
	h.status(c, h.basinSvc.ReferenceID())
}

func (h *ChartHandler) status(c *gin.Context, id string) {
	ctx, wc := services.NewWarningContext(c.Request.Context())
	resp, err := h.statusSvc.GetStatus(ctx, id)
	if err != nil {
		viewError(c, err)
		return
	}
	resp.Warnings = wc.GetWarnings()
	c.JSON(http.StatusOK, resp)
}

func viewError(c *gin.Context, err error) {
	switch {
	case services.IsRequestError(err):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrReservoirNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "reservoir not found",
		})
	default:
		internalError(c, err)
	}
}
