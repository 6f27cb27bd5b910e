package handlers

import (
	"net/http"

	"admarket_backend/internal/middleware"
	"admarket_backend/internal/repositories"
	"admarket_backend/internal/services"
	"admarket_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// AdminHandler объединяет админ-инструменты: пользователи, модерация
// отзывов, окна оплаты и dead-letter очередь outbox.
type AdminHandler struct {
	*BaseHandler
	userService    services.UserService
	reviewService  services.ReviewService
	paymentService services.PaymentRequestService
	outboxRepo     repositories.OutboxRepository
}

func NewAdminHandler(
	base *BaseHandler,
	userService services.UserService,
	reviewService services.ReviewService,
	paymentService services.PaymentRequestService,
	outboxRepo repositories.OutboxRepository,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler:    base,
		userService:    userService,
		reviewService:  reviewService,
		paymentService: paymentService,
		outboxRepo:     outboxRepo,
	}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/users", h.ListUsers)
		admin.PUT("/users/:id/status", h.SetUserStatus)

		admin.GET("/reviews", h.ListModerationQueue)
		admin.PUT("/reviews/:id/moderate", h.ModerateReview)

		admin.GET("/payment-requests", h.ListPaymentRequests)

		admin.GET("/outbox/failed", h.ListFailedOutbox)
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var filter dto.AdminUserFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}

	users, total, err := h.userService.ListUsers(&filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": users, "total": total})
}

func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	var req dto.AdminUserStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.userService.SetUserStatus(c.Param("id"), req.Status); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User status updated"})
}

func (h *AdminHandler) ListModerationQueue(c *gin.Context) {
	var filter dto.ReviewModerationFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}

	reviews, total, err := h.reviewService.ListModerationQueue(&filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": reviews, "total": total})
}

func (h *AdminHandler) ModerateReview(c *gin.Context) {
	var req dto.ModerateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.reviewService.ModerateReview(c.Param("id"), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review moderated"})
}

func (h *AdminHandler) ListPaymentRequests(c *gin.Context) {
	var filter dto.AdminPaymentFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}

	prs, total, err := h.paymentService.ListAll(&filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": prs, "total": total})
}

// ListFailedOutbox показывает события, исчерпавшие попытки доставки.
func (h *AdminHandler) ListFailedOutbox(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	events, total, err := h.outboxRepo.FindFailed(pageSize, (page-1)*pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": events, "total": total})
}
