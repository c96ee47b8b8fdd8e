package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homehelp_backend/internal/logger"
	"homehelp_backend/internal/middleware"
	"homehelp_backend/internal/models"
	"homehelp_backend/internal/mpesa"
	"homehelp_backend/internal/services"
	"homehelp_backend/internal/services/dto"
)

type PaymentHandler struct {
	*BaseHandler
	paymentService services.PaymentService
}

func NewPaymentHandler(base *BaseHandler, paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    base,
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		// The gateway posts here without credentials. Correlation happens
		// through the checkout request ID, never the URL.
		payments.POST("/mpesa/callback", h.MpesaCallback)

		authed := payments.Group("")
		authed.Use(middleware.AuthMiddleware())
		{
			authed.POST("/worker/initiate", middleware.RoleMiddleware(models.UserRoleWorker), h.InitiateWorkerPayment)
			authed.POST("/customer/initiate", middleware.RoleMiddleware(models.UserRoleCustomer), h.InitiateCustomerPayment)
			authed.GET("/status/:id", h.CheckStatus)
			authed.GET("/history", h.History)
			authed.GET("/customer/access-status", middleware.RoleMiddleware(models.UserRoleCustomer), h.AccessStatus)
			authed.POST("/customer/record-contact", middleware.RoleMiddleware(models.UserRoleCustomer), h.RecordContact)
		}
	}
}

func (h *PaymentHandler) InitiateWorkerPayment(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.InitiatePaymentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.paymentService.InitiateWorkerPayment(c.Request.Context(), userID, mpesa.NormalizePhone(req.PhoneNumber))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *PaymentHandler) InitiateCustomerPayment(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.InitiatePaymentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.paymentService.InitiateCustomerPayment(c.Request.Context(), userID, mpesa.NormalizePhone(req.PhoneNumber))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// MpesaCallback always acknowledges with 200. A non-2xx answer makes the
// gateway retry, and every retry is already handled idempotently inside the
// service.
func (h *PaymentHandler) MpesaCallback(c *gin.Context) {
	var payload mpesa.CallbackPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.CtxWarn(c.Request.Context(), "unreadable mpesa callback body", "error", err.Error())
		c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
		return
	}

	h.paymentService.HandleCallback(c.Request.Context(), &payload)
	c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
}

func (h *PaymentHandler) CheckStatus(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	response, err := h.paymentService.CheckStatus(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *PaymentHandler) History(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var query dto.HistoryQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	payments, pagination, err := h.paymentService.History(c.Request.Context(), userID, query.Page, query.Limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"payments":   payments,
		"pagination": pagination,
	})
}

func (h *PaymentHandler) AccessStatus(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	response, err := h.paymentService.AccessStatus(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *PaymentHandler) RecordContact(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.RecordContactRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.paymentService.RecordContact(c.Request.Context(), userID, req.WorkerID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact recorded"})
}
