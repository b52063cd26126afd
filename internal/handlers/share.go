package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/services"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/utils"
	"gorm.io/gorm"
)

// ShareHandler handles share link routes
type ShareHandler struct {
	DB *gorm.DB
}

type shareListRequest struct {
	ShoppingListID uint64 `json:"shoppingListId"`
	ExpiryDays     int    `json:"expiryDays"`
}

// ShareShoppingList handles POST /api/shopping-lists/share
// @Summary Create a share link
// @Description Create an expiring share token for an owned shopping list. Expiry defaults to 7 days.
// @Tags Share
// @Accept json
// @Produce json
// @Param request body shareListRequest true "List ID and optional expiry in days"
// @Success 200 {object} services.ShareInfo
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /shopping-lists/share [post]
func (h *ShareHandler) ShareShoppingList(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "auth.session")
	}

	var req shareListRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.InvalidInputResponse(c, "Invalid request body")
	}
	if req.ShoppingListID == 0 {
		return utils.InvalidInputResponse(c, "shoppingListId is required")
	}

	info, err := services.ShareList(h.DB, userID, req.ShoppingListID, req.ExpiryDays)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFoundResponse(c, "Shopping list not found")
		}
		log.Printf("share list %d failed for user %s: %v", req.ShoppingListID, userID, err)
		return utils.UpstreamResponse(c, "share.create")
	}

	return c.Status(fiber.StatusOK).JSON(info)
}

// ResolveSharedList handles GET /shopping-lists/share?token=...
// This route is public: possession of an unexpired token is the only
// credential.
// @Summary Resolve a share link
// @Description Get the shared list content behind an unexpired share token
// @Tags Share
// @Produce json
// @Param token query string true "Share token"
// @Success 200 {object} services.SharedListView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /shopping-lists/share [get]
func (h *ShareHandler) ResolveSharedList(c *fiber.Ctx) error {
	token := trimmed(c.Query("token"))
	if token == "" {
		return utils.InvalidInputResponse(c, "token is required")
	}

	view, err := services.ResolveShare(h.DB, token)
	if err != nil {
		if errors.Is(err, services.ErrShareNotFound) {
			return utils.NotFoundResponse(c, "Share link is invalid or has expired")
		}
		log.Printf("resolve share token failed: %v", err)
		return utils.UpstreamResponse(c, "share.resolve")
	}

	return c.Status(fiber.StatusOK).JSON(view)
}
