package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories"
	"github.com/SAP-F-2025/assessment-paper-service/internal/services"
	"github.com/SAP-F-2025/assessment-paper-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	BaseHandler
	service services.QuestionService
}

func NewQuestionHandler(service services.QuestionService, logger utils.Logger) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// List handles GET /api/questions/?courseId=&type=&topic=&taxonomy=
func (h *QuestionHandler) List(c *gin.Context) {
	courseID, ok := queryID(c, "courseId")
	if !ok {
		return
	}
	filters := repositories.QuestionFilters{
		CourseID:    courseID,
		Topic:       queryString(c, "topic"),
		Taxonomy:    queryString(c, "taxonomy"),
		ListOptions: listOptions(c, services.QuestionFields),
	}
	if t := c.Query("type"); t != "" {
		qt := models.QuestionType(t)
		filters.Type = &qt
	}

	questions, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *QuestionHandler) Create(c *gin.Context) {
	var req services.QuestionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	question, err := h.service.Create(c.Request.Context(), &req, GetUserIDFromContext(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *QuestionHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c, "question")
	if !ok {
		return
	}
	question, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) Update(c *gin.Context) { h.update(c, false) }

func (h *QuestionHandler) Patch(c *gin.Context) { h.update(c, true) }

func (h *QuestionHandler) update(c *gin.Context, partial bool) {
	id, ok := h.parseIDParam(c, "question")
	if !ok {
		return
	}
	body, ok := h.bindBody(c)
	if !ok {
		return
	}
	question, err := h.service.Update(c.Request.Context(), id, body, partial, GetUserIDFromContext(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c, "question")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id, GetUserIDFromContext(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
