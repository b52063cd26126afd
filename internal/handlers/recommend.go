package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/services"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/utils"
	"gorm.io/gorm"
)

// RecommendHandler handles recipe recommendation routes
type RecommendHandler struct {
	DB     *gorm.DB
	Client services.LLMClient
}

type recommendRequest struct {
	Inventory   []services.RecommendInventoryItem `json:"inventory"`
	Preferences string                            `json:"preferences"`
	NumRecipes  *int                              `json:"numRecipes"`
}

// RecommendFromInventory handles POST /api/recommendations/inventory
// @Summary Recommend recipes from inventory
// @Description Ask the model for recipes that use the submitted inventory, prioritizing soon-to-expire items
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param request body recommendRequest true "Inventory snapshot, optional preferences, optional recipe count (1-10, default 5)"
// @Success 200 {object} services.RecommendResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /recommendations/inventory [post]
func (h *RecommendHandler) RecommendFromInventory(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "auth.session")
	}

	var req recommendRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.InvalidInputResponse(c, "Invalid request body")
	}
	if len(req.Inventory) == 0 {
		return utils.InvalidInputResponse(c, "inventory must not be empty")
	}

	numRecipes := 5
	if req.NumRecipes != nil {
		numRecipes = *req.NumRecipes
	}
	if numRecipes < 1 || numRecipes > 10 {
		return utils.InvalidInputResponse(c, "numRecipes must be between 1 and 10")
	}

	response, err := services.RecommendFromInventory(c.Context(), h.DB, h.Client, services.RecommendInput{
		Inventory:   req.Inventory,
		Preferences: trimmed(req.Preferences),
		NumRecipes:  numRecipes,
	})
	if err != nil {
		if errors.Is(err, services.ErrRecommenderUnavailable) {
			return utils.ErrorResponse(c, "Recommendations are not available", fiber.StatusServiceUnavailable, "recommendations.unavailable")
		}
		log.Printf("inventory recommendation failed for user %s: %v", userID, err)
		return utils.UpstreamResponse(c, "recommendations.inventory")
	}

	return c.Status(fiber.StatusOK).JSON(response)
}
