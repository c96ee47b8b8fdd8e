package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homehelp_backend/internal/middleware"
	"homehelp_backend/internal/models"
	"homehelp_backend/internal/services"
	"homehelp_backend/internal/services/dto"
)

type AdminHandler struct {
	*BaseHandler
	adminService services.AdminService
}

func NewAdminHandler(base *BaseHandler, adminService services.AdminService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  base,
		adminService: adminService,
	}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.GET("/applications", h.ListApplications)
		admin.GET("/applications/:id", h.GetApplication)
		admin.POST("/applications/:id/approve", h.ApproveWorker)
		admin.POST("/applications/:id/reject", h.RejectWorker)
		admin.POST("/workers/:id/toggle-visibility", h.ToggleVisibility)

		admin.GET("/users", h.ListUsers)
		admin.POST("/users/:id/toggle-active", h.ToggleUserActive)

		admin.GET("/payments", h.ListPayments)
		admin.GET("/analytics", h.Analytics)
	}
}

func (h *AdminHandler) ListApplications(c *gin.Context) {
	var query dto.ApplicationListQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	workers, pagination, err := h.adminService.ListApplications(c.Request.Context(), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"applications": workers,
		"pagination":   pagination,
	})
}

func (h *AdminHandler) GetApplication(c *gin.Context) {
	worker, err := h.adminService.GetApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": worker})
}

func (h *AdminHandler) ApproveWorker(c *gin.Context) {
	adminID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	worker, err := h.adminService.ApproveWorker(c.Request.Context(), c.Param("id"), adminID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Application approved",
		"worker":  worker,
	})
}

func (h *AdminHandler) RejectWorker(c *gin.Context) {
	var req dto.RejectWorkerRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	worker, err := h.adminService.RejectWorker(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Application rejected",
		"worker":  worker,
	})
}

func (h *AdminHandler) ToggleVisibility(c *gin.Context) {
	worker, err := h.adminService.ToggleVisibility(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Visibility updated",
		"worker":  worker,
	})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var query dto.UserListQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	users, pagination, err := h.adminService.ListUsers(c.Request.Context(), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users":      users,
		"pagination": pagination,
	})
}

func (h *AdminHandler) ToggleUserActive(c *gin.Context) {
	user, err := h.adminService.ToggleUserActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "User status updated",
		"user":    user,
	})
}

func (h *AdminHandler) ListPayments(c *gin.Context) {
	var query dto.PaymentListQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	payments, pagination, err := h.adminService.ListPayments(c.Request.Context(), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"payments":   payments,
		"pagination": pagination,
	})
}

func (h *AdminHandler) Analytics(c *gin.Context) {
	analytics, err := h.adminService.Analytics(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}
