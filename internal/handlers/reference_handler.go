package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories"
	"github.com/SAP-F-2025/assessment-paper-service/internal/services"
	"github.com/SAP-F-2025/assessment-paper-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// crudHandler is the route surface registered for every resource.
type crudHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Patch(c *gin.Context)
	Delete(c *gin.Context)
}

// ReferenceHandler serves plain CRUD resources: branding and the academic directory.
type ReferenceHandler[M any, R any] struct {
	BaseHandler
	service  services.ReferenceService[M, R]
	fields   services.ResourceFields
	resource string
}

func NewReferenceHandler[M any, R any](service services.ReferenceService[M, R], fields services.ResourceFields, resource string, logger utils.Logger) *ReferenceHandler[M, R] {
	return &ReferenceHandler[M, R]{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		fields:      fields,
		resource:    resource,
	}
}

func (h *ReferenceHandler[M, R]) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), listOptions(c, h.fields))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ReferenceHandler[M, R]) Create(c *gin.Context) {
	req := new(R)
	if !h.bindJSON(c, req) {
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *ReferenceHandler[M, R]) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c, h.resource)
	if !ok {
		return
	}
	item, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ReferenceHandler[M, R]) Update(c *gin.Context) { h.update(c, false) }

func (h *ReferenceHandler[M, R]) Patch(c *gin.Context) { h.update(c, true) }

func (h *ReferenceHandler[M, R]) update(c *gin.Context, partial bool) {
	id, ok := h.parseIDParam(c, h.resource)
	if !ok {
		return
	}
	body, ok := h.bindBody(c)
	if !ok {
		return
	}
	item, err := h.service.Update(c.Request.Context(), id, body, partial)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ReferenceHandler[M, R]) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c, h.resource)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ProgrammeHandler adds the ?deptId= list filter.
type ProgrammeHandler struct {
	*ReferenceHandler[models.Programme, services.ProgrammeRequest]
	programmes services.ProgrammeService
}

func NewProgrammeHandler(service services.ProgrammeService, logger utils.Logger) *ProgrammeHandler {
	return &ProgrammeHandler{
		ReferenceHandler: NewReferenceHandler[models.Programme, services.ProgrammeRequest](service, services.ProgrammeFields, "programme", logger),
		programmes:       service,
	}
}

func (h *ProgrammeHandler) List(c *gin.Context) {
	filters := repositories.ProgrammeFilters{
		DeptID:      queryString(c, "deptId"),
		ListOptions: listOptions(c, services.ProgrammeFields),
	}
	items, err := h.programmes.ListByFilters(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// SessionHandler adds explicit activation.
type SessionHandler struct {
	*ReferenceHandler[models.AcademicSession, services.SessionRequest]
	sessions services.SessionService
}

func NewSessionHandler(service services.SessionService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		ReferenceHandler: NewReferenceHandler[models.AcademicSession, services.SessionRequest](service, services.SessionFields, "session", logger),
		sessions:         service,
	}
}

func (h *SessionHandler) Activate(c *gin.Context) {
	id, ok := h.parseIDParam(c, "session")
	if !ok {
		return
	}
	session, err := h.sessions.Activate(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}
