package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/parttracker/backend-go/internal/api/middleware"
	"github.com/parttracker/backend-go/internal/domain"
	"github.com/parttracker/backend-go/internal/service"
)

type ForecastHandler struct {
	service *service.ForecastService
}

func NewForecastHandler(service *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{service: service}
}

func (h *ForecastHandler) parseFilter(c *gin.Context) domain.ForecastFilter {
	filter := domain.ForecastFilter{}

	if site := strings.TrimSpace(c.Query("site")); site != "" {
		filter.Site = strings.ToUpper(site)
	}

	if part := strings.TrimSpace(c.Query("part_number")); part != "" {
		filter.PartNumber = part
	}

	if supplier := strings.TrimSpace(c.Query("supplier_code")); supplier != "" {
		filter.SupplierCode = supplier
	}

	if months, err := strconv.Atoi(c.DefaultQuery("horizon_months", "0")); err == nil && months > 0 {
		filter.HorizonMonths = months
	}

	return filter
}

// GetForecast returns the full forecast table for the filter as a flat
// JSON array of rows ordered by (site, part_number, date).
func (h *ForecastHandler) GetForecast(c *gin.Context) {
	filter := h.parseFilter(c)

	rows, err := h.service.GetForecast(c.Request.Context(), filter)
	if err != nil {
		middleware.ForecastRunsTotal.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute forecast", "details": err.Error()})
		return
	}

	middleware.ForecastRunsTotal.WithLabelValues("ok").Inc()
	middleware.ForecastRowsReturned.Observe(float64(len(rows)))

	if rows == nil {
		rows = make([]domain.ForecastRow, 0)
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ForecastHandler) GetSites(c *gin.Context) {
	sites, err := h.service.Sites(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch sites", "details": err.Error()})
		return
	}
	if sites == nil {
		sites = make([]string, 0)
	}
	c.JSON(http.StatusOK, sites)
}

func (h *ForecastHandler) GetParts(c *gin.Context) {
	site := strings.ToUpper(strings.TrimSpace(c.Query("site")))

	parts, err := h.service.Parts(c.Request.Context(), site)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch parts", "details": err.Error()})
		return
	}
	if parts == nil {
		parts = make([]string, 0)
	}
	c.JSON(http.StatusOK, parts)
}
