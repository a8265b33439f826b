package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/assessment-paper-service/internal/services"
	"github.com/SAP-F-2025/assessment-paper-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	BaseHandler
	service services.AuthService
}

func NewAuthHandler(service services.AuthService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Login handles POST /api/login/.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	utils.LoggerFromContext(c).Info("User logged in", "user_id", resp.User.ID, "role", resp.User.Role)
	c.JSON(http.StatusOK, resp)
}

// Register handles POST /api/register/.
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID := GetUserIDFromContext(c)
	if userID == nil {
		h.handleServiceError(c, services.ErrUnauthenticated)
		return
	}
	user, err := h.service.CurrentUser(c.Request.Context(), *userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) DeleteMe(c *gin.Context) {
	userID := GetUserIDFromContext(c)
	if userID == nil {
		h.handleServiceError(c, services.ErrUnauthenticated)
		return
	}
	if err := h.service.DeleteAccount(c.Request.Context(), *userID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
