package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/epeers/reservoirs/internal/models"
	"github.com/epeers/reservoirs/internal/services"
	"github.com/epeers/reservoirs/internal/timeseries"
)

// ReservoirHandler serves the raw data endpoints the dashboards read from.
type ReservoirHandler struct {
	readingSvc *services.ReadingService
}

// NewReservoirHandler creates a new ReservoirHandler
func NewReservoirHandler(readingSvc *services.ReadingService) *ReservoirHandler {
	return &ReservoirHandler{
		readingSvc: readingSvc,
	}
}

// ListStates handles GET /api/states
// @Summary List states
// @Description States that have at least one monitored reservoir, sorted
// @Tags reservoirs
// @Produce json
// @Success 200 {array} string
// @Failure 500 {object} models.ErrorResponse
// @Router /api/states [get]
func (h *ReservoirHandler) ListStates(c *gin.Context) {
	states, err := h.readingSvc.ListStates(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, states)
}

// ListReservoirs handles GET /api/reservoirs/:state
// @Summary List reservoirs of a state
// @Tags reservoirs
// @Produce json
// @Param state path string true "State name"
// @Success 200 {array} models.ReservoirRef
// @Failure 500 {object} models.ErrorResponse
// @Router /api/reservoirs/{state} [get]
func (h *ReservoirHandler) ListReservoirs(c *gin.Context) {
	refs, err := h.readingSvc.ListReservoirs(c.Request.Context(), c.Param("state"))
	if err != nil {
		internalError(c, err)
		return
	}
	if refs == nil {
		refs = []models.ReservoirRef{}
	}
	c.JSON(http.StatusOK, refs)
}

// GetReservoir handles GET /api/reservoir/:id
// @Summary Get reservoir metadata
// @Tags reservoirs
// @Produce json
// @Param id path string true "Reservoir id (clavesih)"
// @Success 200 {object} models.Reservoir
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/reservoir/{id} [get]
func (h *ReservoirHandler) GetReservoir(c *gin.Context) {
	res, err := h.readingSvc.GetReservoir(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrReservoirNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "not_found",
				Message: "reservoir not found",
			})
			return
		}
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetReadings handles GET /api/data/:id
// @Summary Get daily readings
// @Description Readings in an inclusive date range; either bound may be omitted
// @Tags reservoirs
// @Produce json
// @Param id path string true "Reservoir id (clavesih)"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {array} timeseries.RawReading
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/data/{id} [get]
func (h *ReservoirHandler) GetReadings(c *gin.Context) {
	start, end, ok := dateRange(c)
	if !ok {
		return
	}

	data, err := h.readingSvc.GetReadings(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		internalError(c, err)
		return
	}
	if data == nil {
		data = []timeseries.RawReading{}
	}
	c.JSON(http.StatusOK, data)
}

// GetLatest handles GET /api/latest/:id
// @Summary Get the most recent reading
// @Tags reservoirs
// @Produce json
// @Param id path string true "Reservoir id (clavesih)"
// @Success 200 {object} timeseries.RawReading
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/latest/{id} [get]
func (h *ReservoirHandler) GetLatest(c *gin.Context) {
	latest, err := h.readingSvc.GetLatest(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrReservoirNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "not_found",
				Message: "no data found for this reservoir",
			})
			return
		}
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, latest)
}

// dateRange reads optional start_date/end_date query parameters. On failure
// it writes the 400 response and returns ok=false.
func dateRange(c *gin.Context) (start, end *time.Time, ok bool) {
	start, err := dateParam(c, "start_date")
	if err != nil {
		return nil, nil, false
	}
	end, err = dateParam(c, "end_date")
	if err != nil {
		return nil, nil, false
	}
	if start != nil && end != nil && start.After(*end) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: "start_date must not be after end_date",
		})
		return nil, nil, false
	}
	return start, end, true
}

func dateParam(c *gin.Context, name string) (*time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: name + " must be in YYYY-MM-DD format",
		})
		return nil, err
	}
	return &t, nil
}

func internalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	})
}
