package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"vectormag-cms/helper"
	"vectormag-cms/models"
	"vectormag-cms/services"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
	Helper           *helper.HTTPHelper
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService, h *helper.HTTPHelper) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, Helper: h}
}

// Track queues a reader event. The response does not wait for the write.
func (h *AnalyticsHandler) Track(c *gin.Context) {
	var req models.TrackRequest
	if !h.Helper.BindAndValidate(c, &req) {
		return
	}

	queued := h.analyticsService.Track(services.Visit{
		TrackRequest: req,
		ClientIP:     c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	})

	h.Helper.SendAccepted(c, "Event received", map[string]interface{}{"queued": queued})
}

func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	days := 0
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			h.Helper.SendBadRequest(c, "Invalid days", h.Helper.EmptyJsonMap())
			return
		}
		days = n
	}

	stats, err := h.analyticsService.Dashboard(c.Request.Context(), days)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", stats)
}
