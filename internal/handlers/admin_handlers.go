package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/epeers/reservoirs/internal/models"
	"github.com/epeers/reservoirs/internal/services"
	"github.com/epeers/reservoirs/internal/util"
)

// maxIngestDays bounds one synchronous ingest request; longer backfills go through the CLI.
const maxIngestDays = 31

// AdminHandler handles admin endpoints
type AdminHandler struct {
	ingestSvc *services.IngestService
	delay     time.Duration
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(ingestSvc *services.IngestService, delay time.Duration) *AdminHandler {
	return &AdminHandler{
		ingestSvc: ingestSvc,
		delay:     delay,
	}
}

// Ingest handles POST /admin/ingest
// @Summary Ingest CONAGUA reports
// @Description Load one report date, or a range walked newest first. With an empty body the
// @Description current report day is loaded. At most 31 days per request.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.IngestRequest false "Dates to ingest"
// @Success 200 {object} models.IngestResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/ingest [post]
func (h *AdminHandler) Ingest(c *gin.Context) {
	var req models.IngestRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "bad_request",
				Message: err.Error(),
			})
			return
		}
	}

	from, to := req.From.Time, req.To.Time
	switch {
	case !req.Date.IsZero():
		if !from.IsZero() || !to.IsZero() {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "bad_request",
				Message: "date cannot be combined with from/to",
			})
			return
		}
		from, to = req.Date.Time, req.Date.Time
	case from.IsZero() && to.IsZero():
		from = util.ReportDay(time.Now())
		to = from
	case from.IsZero():
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: "from is required when to is given",
		})
		return
	case to.IsZero():
		to = util.ReportDay(time.Now())
	}

	if to.Before(from) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: "to must not be before from",
		})
		return
	}
	if days := int(to.Sub(from).Hours()/24) + 1; days > maxIngestDays {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: fmt.Sprintf("range too long; at most %d days per request, use the ingest command for longer backfills", maxIngestDays),
		})
		return
	}

	ctx, wc := services.NewWarningContext(c.Request.Context())
	result, err := h.ingestSvc.Backfill(ctx, from, to, h.delay)
	if err != nil {
		log.Errorf("admin ingest failed: %v", err)
		internalError(c, err)
		return
	}
	result.Warnings = append(result.Warnings, wc.GetWarnings()...)
	c.JSON(http.StatusOK, result)
}
