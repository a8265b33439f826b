package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories"
	"github.com/SAP-F-2025/assessment-paper-service/internal/services"
	"github.com/SAP-F-2025/assessment-paper-service/internal/utils"
	"github.com/SAP-F-2025/assessment-paper-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// BaseHandler carries what every resource handler shares.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// handleServiceError maps service errors to HTTP responses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid Credentials"})
	case errors.Is(err, services.ErrUnauthenticated), errors.Is(err, services.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication credentials were not provided"})
	default:
		if msg := services.NotFoundMessage(err); msg != "" {
			c.JSON(http.StatusNotFound, ErrorResponse{Message: msg})
			return
		}
		utils.LoggerFromContext(c).Error("Unhandled service error",
			"error", err, "path", c.Request.URL.Path, "method", c.Request.Method)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}

// bindJSON decodes the body into req, answering 400 on malformed input.
func (h *BaseHandler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.handleServiceError(c, validator.FromDecodeError(err))
		return false
	}
	return true
}

// bindBody reads an update body as raw fields.
func (h *BaseHandler) bindBody(c *gin.Context) (map[string]json.RawMessage, bool) {
	var body map[string]json.RawMessage
	if !h.bindJSON(c, &body) {
		return nil, false
	}
	if body == nil {
		body = map[string]json.RawMessage{}
	}
	return body, true
}

func (h *BaseHandler) parseIDParam(c *gin.Context, resource string) (uint, bool) {
	id, ok := validator.ParseID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid " + resource + " ID"})
		return 0, false
	}
	return id, true
}

// listOptions reads ?ordering=, ?limit= and ?offset=.
func listOptions(c *gin.Context, fields services.ResourceFields) repositories.ListOptions {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return fields.ListOptions(c.Query("ordering"), max(limit, 0), max(offset, 0))
}

// queryString returns nil when the parameter is absent or empty.
func queryString(c *gin.Context, key string) *string {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	return &v
}

// queryID returns nil when the parameter is absent; ok is false when it is not an id.
func queryID(c *gin.Context, key string) (id *uint, ok bool) {
	v := c.Query(key)
	if v == "" {
		return nil, true
	}
	n, valid := validator.ParseID(v)
	if !valid {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validator.Field(key, "must be a positive integer", v, "id"),
		})
		return nil, false
	}
	return &n, true
}
