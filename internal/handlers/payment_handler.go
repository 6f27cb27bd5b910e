package handlers

import (
	"net/http"

	"admarket_backend/internal/middleware"
	"admarket_backend/internal/models"
	"admarket_backend/internal/services"
	"admarket_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	*BaseHandler
	paymentService services.PaymentRequestService
}

func NewPaymentHandler(base *BaseHandler, paymentService services.PaymentRequestService) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    base,
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payment-requests")
	payments.Use(middleware.AuthMiddleware())
	{
		// Окно оплаты создает блогер (payee)
		payments.POST("",
			middleware.RoleMiddleware(models.UserRoleInfluencer), h.Create)
		payments.GET("/mine", h.ListMine)
		payments.GET("/:id", h.Get)
		payments.PUT("/:id/status", h.UpdateStatus)
		payments.PATCH("/:id",
			middleware.RoleMiddleware(models.UserRoleInfluencer), h.Edit)
	}
}

func (h *PaymentHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePaymentRequestDTO
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	pr, err := h.paymentService.CreatePaymentRequest(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, pr)
}

func (h *PaymentHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	prs, err := h.paymentService.ListForUser(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": prs})
}

func (h *PaymentHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	pr, err := h.paymentService.GetPaymentRequest(userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, pr)
}

func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdatePaymentStatusDTO
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	pr, err := h.paymentService.UpdatePaymentStatus(userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, pr)
}

func (h *PaymentHandler) Edit(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.EditPaymentRequestDTO
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	pr, err := h.paymentService.EditPaymentRequest(userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, pr)
}
