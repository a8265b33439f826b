package handlers

import (
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories"
	"github.com/SAP-F-2025/assessment-paper-service/internal/services"
	"github.com/SAP-F-2025/assessment-paper-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type PaperHandler struct {
	BaseHandler
	service services.PaperService
	export  services.ExportService
}

func NewPaperHandler(service services.PaperService, export services.ExportService, logger utils.Logger) *PaperHandler {
	return &PaperHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		export:      export,
	}
}

// List handles GET /api/papers/?status=&courseId=&createdBy=; newest first by default.
func (h *PaperHandler) List(c *gin.Context) {
	courseID, ok := queryID(c, "courseId")
	if !ok {
		return
	}
	createdBy, ok := queryID(c, "createdBy")
	if !ok {
		return
	}
	filters := repositories.PaperFilters{
		CourseID:    courseID,
		CreatedBy:   createdBy,
		ListOptions: listOptions(c, services.PaperFields),
	}
	if s := c.Query("status"); s != "" {
		status := models.PaperStatus(s)
		filters.Status = &status
	}

	papers, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, papers)
}

// Create accepts questionIds or nested questions objects; the creator comes
// from the bearer token when one is sent.
func (h *PaperHandler) Create(c *gin.Context) {
	var req services.PaperRequest
	if !h.bindJSON(c, &req) {
		return
	}
	paper, err := h.service.Create(c.Request.Context(), &req, GetUserIDFromContext(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, paper)
}

func (h *PaperHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c, "paper")
	if !ok {
		return
	}
	paper, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, paper)
}

func (h *PaperHandler) Update(c *gin.Context) { h.update(c, false) }

func (h *PaperHandler) Patch(c *gin.Context) { h.update(c, true) }

func (h *PaperHandler) update(c *gin.Context, partial bool) {
	id, ok := h.parseIDParam(c, "paper")
	if !ok {
		return
	}
	body, ok := h.bindBody(c)
	if !ok {
		return
	}
	paper, err := h.service.Update(c.Request.Context(), id, body, partial, GetUserIDFromContext(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, paper)
}

func (h *PaperHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c, "paper")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id, GetUserIDFromContext(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Export streams the paper as an XLSX attachment.
func (h *PaperHandler) Export(c *gin.Context) {
	id, ok := h.parseIDParam(c, "paper")
	if !ok {
		return
	}
	file, err := h.export.ExportPaper(c.Request.Context(), id, GetUserIDFromContext(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
