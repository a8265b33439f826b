package handlers

import (
	"net/http"
	"strings"

	"github.com/SAP-F-2025/assessment-paper-service/internal/services"
	"github.com/SAP-F-2025/assessment-paper-service/internal/utils"
	"github.com/SAP-F-2025/assessment-paper-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	BaseHandler
	service services.MediaService
}

func NewMediaHandler(service services.MediaService, logger utils.Logger) *MediaHandler {
	return &MediaHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Upload handles multipart POST /api/media/ with a "file" part.
func (h *MediaHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxMediaSize+1<<20)

	header, err := c.FormFile("file")
	if err != nil {
		h.handleServiceError(c, validator.Field("file", "a file part is required", nil, "required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	defer file.Close()

	obj, err := h.service.Upload(c.Request.Context(), header.Filename,
		header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, obj)
}

// Serve streams GET /media/*key from the blob store.
func (h *MediaHandler) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	rc, err := h.service.Open(c.Request.Context(), key)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, -1, services.MediaContentType(key), rc, nil)
}
