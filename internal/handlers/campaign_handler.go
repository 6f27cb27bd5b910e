package handlers

import (
	"net/http"

	"admarket_backend/internal/middleware"
	"admarket_backend/internal/models"
	"admarket_backend/internal/services"
	"admarket_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type CampaignHandler struct {
	*BaseHandler
	campaignService    services.CampaignService
	applicationService services.ApplicationService
}

func NewCampaignHandler(
	base *BaseHandler,
	campaignService services.CampaignService,
	applicationService services.ApplicationService,
) *CampaignHandler {
	return &CampaignHandler{
		BaseHandler:        base,
		campaignService:    campaignService,
		applicationService: applicationService,
	}
}

func (h *CampaignHandler) RegisterRoutes(rg *gin.RouterGroup) {
	campaigns := rg.Group("/campaigns")
	{
		campaigns.GET("", h.ListActive)
		campaigns.GET("/:id", h.Get)
	}

	authed := rg.Group("/campaigns")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.POST("",
			middleware.RoleMiddleware(models.UserRoleAdvertiser), h.Create)
		authed.GET("/mine",
			middleware.RoleMiddleware(models.UserRoleAdvertiser), h.ListMine)
		authed.PATCH("/:id",
			middleware.RoleMiddleware(models.UserRoleAdvertiser), h.Update)
		authed.PUT("/:id/status",
			middleware.RoleMiddleware(models.UserRoleAdvertiser), h.SetStatus)

		// Отклики
		authed.POST("/:id/applications",
			middleware.RoleMiddleware(models.UserRoleInfluencer), h.Apply)
		authed.GET("/:id/applications",
			middleware.RoleMiddleware(models.UserRoleAdvertiser), h.ListApplications)
	}

	applications := rg.Group("/applications")
	applications.Use(middleware.AuthMiddleware())
	{
		applications.GET("/mine",
			middleware.RoleMiddleware(models.UserRoleInfluencer), h.ListMyApplications)
		applications.PUT("/:id/decision",
			middleware.RoleMiddleware(models.UserRoleAdvertiser), h.Decide)
		applications.POST("/:id/withdraw",
			middleware.RoleMiddleware(models.UserRoleInfluencer), h.Withdraw)
	}
}

func (h *CampaignHandler) ListActive(c *gin.Context) {
	var query dto.ListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	campaigns, total, err := h.campaignService.ListActiveCampaigns(&query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": campaigns, "total": total})
}

func (h *CampaignHandler) Get(c *gin.Context) {
	campaign, err := h.campaignService.GetCampaign(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, campaign)
}

func (h *CampaignHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCampaignRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	campaign, err := h.campaignService.CreateCampaign(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, campaign)
}

func (h *CampaignHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	campaigns, err := h.campaignService.ListMyCampaigns(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": campaigns})
}

func (h *CampaignHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCampaignRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	campaign, err := h.campaignService.UpdateCampaign(userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, campaign)
}

func (h *CampaignHandler) SetStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CampaignStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.campaignService.SetCampaignStatus(userID, c.Param("id"), req.Status); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Campaign status updated"})
}

func (h *CampaignHandler) Apply(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateApplicationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	application, err := h.applicationService.Apply(userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, application)
}

func (h *CampaignHandler) ListApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	applications, err := h.applicationService.ListForCampaign(userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": applications})
}

func (h *CampaignHandler) ListMyApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	applications, err := h.applicationService.ListMyApplications(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": applications})
}

func (h *CampaignHandler) Decide(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ApplicationDecisionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.applicationService.Decide(userID, c.Param("id"), req.Status); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Decision saved"})
}

func (h *CampaignHandler) Withdraw(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.applicationService.Withdraw(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Application withdrawn"})
}
