package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homehelp_backend/internal/middleware"
	"homehelp_backend/internal/models"
	"homehelp_backend/internal/services"
	"homehelp_backend/internal/services/dto"
)

type WorkerHandler struct {
	*BaseHandler
	workerService services.WorkerService
}

func NewWorkerHandler(base *BaseHandler, workerService services.WorkerService) *WorkerHandler {
	return &WorkerHandler{
		BaseHandler:   base,
		workerService: workerService,
	}
}

func (h *WorkerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Worker-side endpoints
	workers := rg.Group("/workers")
	workers.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleWorker))
	{
		workers.POST("/apply", h.SubmitApplication)
		workers.GET("/dashboard", h.Dashboard)
		workers.PUT("/profile", h.UpdateProfile)
		workers.POST("/notifications/read", h.MarkNotificationsRead)
		workers.GET("/stats", h.Stats)
	}

	// Customer-facing browse endpoints. Authentication is optional: an
	// authenticated customer with active access sees contact details.
	browse := rg.Group("/browse")
	browse.Use(middleware.OptionalAuthMiddleware())
	{
		browse.GET("/workers", h.Browse)
		browse.GET("/workers/:id", h.GetWorker)
		browse.POST("/workers/:id/view", h.RecordView)
	}
}

func (h *WorkerHandler) SubmitApplication(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.ApplicationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	worker, err := h.workerService.SubmitApplication(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Application submitted successfully",
		"worker":  worker,
	})
}

func (h *WorkerHandler) Dashboard(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.workerService.Dashboard(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *WorkerHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	worker, err := h.workerService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"worker":  worker,
	})
}

func (h *WorkerHandler) MarkNotificationsRead(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	if err := h.workerService.MarkNotificationsRead(c.Request.Context(), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notifications marked as read"})
}

func (h *WorkerHandler) Stats(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	stats, err := h.workerService.Stats(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// RecordView counts a card click from the browse grid. The full profile
// fetch counts its own view, so clients call one or the other.
func (h *WorkerHandler) RecordView(c *gin.Context) {
	views, err := h.workerService.RecordView(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "View recorded successfully",
		"profile_views": views,
	})
}

func (h *WorkerHandler) Browse(c *gin.Context) {
	var query dto.BrowseQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	workers, pagination, err := h.workerService.Browse(c.Request.Context(), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"workers":    workers,
		"pagination": pagination,
	})
}

func (h *WorkerHandler) GetWorker(c *gin.Context) {
	viewerID := h.OptionalUserID(c)

	worker, err := h.workerService.GetByID(c.Request.Context(), c.Param("id"), viewerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"worker": worker})
}
