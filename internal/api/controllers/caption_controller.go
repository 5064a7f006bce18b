package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"captionly/internal/models/request_models"
	"captionly/internal/services"
	"captionly/pkg/utils"
)

type CaptionController struct {
	captionService services.CaptionService
}

func NewCaptionController(captionService services.CaptionService) *CaptionController {
	return &CaptionController{captionService: captionService}
}

// Generate godoc
// @Summary Generate a social media caption
// @Description Metered: deducts credit before calling the provider
// @Tags Captions
// @Accept json
// @Produce json
// @Param request body request_models.CaptionRequest true "Caption prompt"
// @Success 200 {object} utils.APIResponse
// @Failure 402 {object} utils.APIResponse
// @Security BearerAuth
// @Router /captions/generate [post]
func (cc *CaptionController) Generate(c *gin.Context) {
	accountID, ok := requireAccountID(c)
	if !ok {
		return
	}

	var req request_models.CaptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := cc.captionService.GenerateCaption(c.Request.Context(), accountID, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Caption generated")
}
