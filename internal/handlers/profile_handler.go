package handlers

import (
	"net/http"

	"admarket_backend/internal/middleware"
	"admarket_backend/internal/models"
	"admarket_backend/internal/services"
	"admarket_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(base *BaseHandler, profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    base,
		profileService: profileService,
	}
}

func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Публичный каталог блогеров
	rg.GET("/influencers", h.ListInfluencers)
	rg.GET("/influencers/:user_id", middleware.AuthMiddleware(), h.GetInfluencer)
	rg.GET("/advertisers/:user_id", h.GetAdvertiser)

	profile := rg.Group("/profile")
	profile.Use(middleware.AuthMiddleware())
	{
		profile.PATCH("/influencer",
			middleware.RoleMiddleware(models.UserRoleInfluencer), h.UpdateInfluencerProfile)
		profile.PATCH("/advertiser",
			middleware.RoleMiddleware(models.UserRoleAdvertiser), h.UpdateAdvertiserProfile)
	}
}

func (h *ProfileHandler) ListInfluencers(c *gin.Context) {
	var query dto.ListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	profiles, total, err := h.profileService.ListPublicInfluencers(&query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": profiles, "total": total})
}

func (h *ProfileHandler) GetInfluencer(c *gin.Context) {
	viewerID := middleware.GetUserID(c)

	profile, err := h.profileService.GetInfluencerProfile(viewerID, c.Param("user_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) GetAdvertiser(c *gin.Context) {
	profile, err := h.profileService.GetAdvertiserProfile(c.Param("user_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateInfluencerProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateInfluencerProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.profileService.UpdateInfluencerProfile(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateAdvertiserProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateAdvertiserProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.profileService.UpdateAdvertiserProfile(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
