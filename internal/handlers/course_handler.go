package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories"
	"github.com/SAP-F-2025/assessment-paper-service/internal/services"
	"github.com/SAP-F-2025/assessment-paper-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	BaseHandler
	service services.CourseService
}

func NewCourseHandler(service services.CourseService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// List handles GET /api/courses/?deptId=&programmeId=&ordering=
func (h *CourseHandler) List(c *gin.Context) {
	filters := repositories.CourseFilters{
		DeptID:      queryString(c, "deptId"),
		ProgrammeID: queryString(c, "programmeId"),
		ListOptions: listOptions(c, services.CourseFields),
	}
	courses, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req services.CourseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	course, err := h.service.Create(c.Request.Context(), &req, GetUserIDFromContext(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c, "course")
	if !ok {
		return
	}
	course, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) Update(c *gin.Context) { h.update(c, false) }

func (h *CourseHandler) Patch(c *gin.Context) { h.update(c, true) }

func (h *CourseHandler) update(c *gin.Context, partial bool) {
	id, ok := h.parseIDParam(c, "course")
	if !ok {
		return
	}
	body, ok := h.bindBody(c)
	if !ok {
		return
	}
	course, err := h.service.Update(c.Request.Context(), id, body, partial, GetUserIDFromContext(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c, "course")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id, GetUserIDFromContext(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
