package handlers

import (
	"github.com/gin-gonic/gin"

	"vectormag-cms/helper"
	"vectormag-cms/models"
	"vectormag-cms/services"
)

type SubscriberHandler struct {
	subscriberService services.SubscriberService
	Helper            *helper.HTTPHelper
}

func NewSubscriberHandler(subscriberService services.SubscriberService, h *helper.HTTPHelper) *SubscriberHandler {
	return &SubscriberHandler{subscriberService: subscriberService, Helper: h}
}

func (h *SubscriberHandler) Subscribe(c *gin.Context) {
	var req models.SubscribeRequest
	if !h.Helper.BindAndValidate(c, &req) {
		return
	}

	subscriber, err := h.subscriberService.Subscribe(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Subscribed successfully", subscriber)
}

func (h *SubscriberHandler) GetSubscribers(c *gin.Context) {
	var params models.PageParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, "Invalid query parameters", err.Error())
		return
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 20
	}

	subscribers, total, err := h.subscriberService.GetSubscribers(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", map[string]interface{}{
		"subscribers": subscribers,
		"pagination":  h.Helper.GeneratePaging(c, params.Page, params.Limit, int(total)),
	})
}

func (h *SubscriberHandler) DeleteSubscriber(c *gin.Context) {
	id, ok := parseID(c, h.Helper, "id")
	if !ok {
		return
	}

	if err := h.subscriberService.DeleteSubscriber(c.Request.Context(), id); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Subscriber removed successfully", h.Helper.EmptyJsonMap())
}
