package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
	"github.com/SAP-F-2025/assessment-paper-service/internal/monitoring"
	"github.com/SAP-F-2025/assessment-paper-service/internal/services"
	"github.com/SAP-F-2025/assessment-paper-service/internal/utils"
)

type HandlerManager struct {
	serviceManager services.ServiceManager
	metrics        *monitoring.Metrics

	brandingHandler   *ReferenceHandler[models.Branding, services.BrandingRequest]
	departmentHandler *ReferenceHandler[models.Department, services.DepartmentRequest]
	programmeHandler  *ProgrammeHandler
	sessionHandler    *SessionHandler
	courseHandler     *CourseHandler
	questionHandler   *QuestionHandler
	paperHandler      *PaperHandler
	authHandler       *AuthHandler
	mediaHandler      *MediaHandler
	authMiddleware    *TokenAuthMiddleware
}

// NewHandlerManager builds every handler; metrics may be nil.
func NewHandlerManager(serviceManager services.ServiceManager, metrics *monitoring.Metrics, logger utils.Logger) *HandlerManager {
	hm := &HandlerManager{
		serviceManager: serviceManager,
		metrics:        metrics,

		brandingHandler: NewReferenceHandler[models.Branding, services.BrandingRequest](
			serviceManager.Branding(), services.BrandingFields, "branding", logger),
		departmentHandler: NewReferenceHandler[models.Department, services.DepartmentRequest](
			serviceManager.Department(), services.DepartmentFields, "department", logger),
		programmeHandler: NewProgrammeHandler(serviceManager.Programme(), logger),
		sessionHandler:   NewSessionHandler(serviceManager.Session(), logger),
		courseHandler:    NewCourseHandler(serviceManager.Course(), logger),
		questionHandler:  NewQuestionHandler(serviceManager.Question(), logger),
		paperHandler:     NewPaperHandler(serviceManager.Paper(), serviceManager.Export(), logger),
		authHandler:      NewAuthHandler(serviceManager.Auth(), logger),
		authMiddleware:   NewTokenAuthMiddleware(serviceManager.Auth()),
	}
	if media := serviceManager.Media(); media != nil {
		hm.mediaHandler = NewMediaHandler(media, logger)
	}
	return hm
}

// SetupRoutes registers the API. Every collection and item path carries a
// trailing slash.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	if hm.metrics != nil {
		router.Use(hm.metrics.Middleware())
		router.GET("/metrics", hm.metrics.Handler())
	}
	router.GET("/health", hm.Health)

	api := router.Group("/api")
	api.Use(hm.authMiddleware.OptionalAuthMiddleware())
	{
		registerCRUD(api, "/branding", hm.brandingHandler)
		registerCRUD(api, "/courses", hm.courseHandler)
		registerCRUD(api, "/questions", hm.questionHandler)
		registerCRUD(api, "/papers", hm.paperHandler)
		api.GET("/papers/:id/export/", hm.paperHandler.Export)

		registerCRUD(api, "/departments", hm.departmentHandler)
		registerCRUD(api, "/programmes", hm.programmeHandler)
		registerCRUD(api, "/sessions", hm.sessionHandler)
		api.POST("/sessions/:id/activate/", hm.sessionHandler.Activate)

		api.POST("/login/", hm.authHandler.Login)
		api.POST("/register/", hm.authHandler.Register)

		me := api.Group("/me")
		me.Use(hm.authMiddleware.RequireAuthMiddleware())
		{
			me.GET("/", hm.authHandler.Me)
			me.DELETE("/", hm.authHandler.DeleteMe)
		}

		if hm.mediaHandler != nil {
			api.POST("/media/", hm.mediaHandler.Upload)
		}
	}

	if hm.mediaHandler != nil {
		router.GET("/media/*key", hm.mediaHandler.Serve)
	}
}

func registerCRUD(group *gin.RouterGroup, path string, h crudHandler) {
	group.GET(path+"/", h.List)
	group.POST(path+"/", h.Create)
	group.GET(path+"/:id/", h.Get)
	group.PUT(path+"/:id/", h.Update)
	group.PATCH(path+"/:id/", h.Patch)
	group.DELETE(path+"/:id/", h.Delete)
}

// Health reports database reachability.
func (hm *HandlerManager) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := hm.serviceManager.HealthCheck(ctx); err != nil {
		utils.LoggerFromContext(c).Warn("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
