package handlers

import (
	"github.com/gin-gonic/gin"

	"vectormag-cms/helper"
	"vectormag-cms/services"
)

type UploadHandler struct {
	mediaService services.MediaService
	Helper       *helper.HTTPHelper
}

func NewUploadHandler(mediaService services.MediaService, h *helper.HTTPHelper) *UploadHandler {
	return &UploadHandler{mediaService: mediaService, Helper: h}
}

// UploadImage accepts a multipart "image" field and replies in the shape the
// editor's image tool expects.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		h.Helper.SendBadRequest(c, "image file is required", h.Helper.EmptyJsonMap())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.Helper.SendBadRequest(c, "cannot read uploaded file", h.Helper.EmptyJsonMap())
		return
	}
	defer file.Close()

	resp, err := h.mediaService.Upload(c.Request.Context(), fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Upload success", resp)
}
