package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/services"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/types"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/utils"
	"gorm.io/gorm"
)

// ShoppingItemHandler handles shopping list item routes
type ShoppingItemHandler struct {
	DB *gorm.DB
}

// addItemRequest accepts quantity as a JSON number or a numeric string.
// A present but non-numeric quantity fails the unmarshal and gets a 400.
type addItemRequest struct {
	ItemName     string             `json:"item_name"`
	IngredientID *uint64            `json:"ingredient_id"`
	Quantity     *types.FlexFloat64 `json:"quantity"`
	Unit         string             `json:"unit"`
	Category     string             `json:"category"`
	Notes        string             `json:"notes"`
}

type updateItemRequest struct {
	ItemName     *string            `json:"item_name"`
	IngredientID *uint64            `json:"ingredient_id"`
	Quantity     *types.FlexFloat64 `json:"quantity"`
	Unit         *string            `json:"unit"`
	Category     *string            `json:"category"`
	IsChecked    *bool              `json:"is_checked"`
	Position     *int               `json:"position"`
	Notes        *string            `json:"notes"`
}

// AddShoppingItem handles POST /api/shopping-lists/:id/items
// @Summary Add an item to a shopping list
// @Description Append an item to an owned list at position max+1
// @Tags ShoppingItems
// @Accept json
// @Produce json
// @Param id path int true "Shopping list ID"
// @Param request body addItemRequest true "Item fields"
// @Success 201 {object} models.ShoppingListItem
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /shopping-lists/{id}/items [post]
func (h *ShoppingItemHandler) AddShoppingItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "auth.session")
	}

	listID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.NotFoundResponse(c, "Shopping list not found")
	}

	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.InvalidInputResponse(c, "Invalid request body")
	}
	name := trimmed(req.ItemName)
	if name == "" {
		return utils.InvalidInputResponse(c, "item_name is required")
	}

	input := services.ItemInput{
		ItemName:     name,
		IngredientID: req.IngredientID,
		Unit:         trimmed(req.Unit),
		Category:     trimmed(req.Category),
		Notes:        req.Notes,
	}
	if req.Quantity != nil {
		q := req.Quantity.Float64()
		input.Quantity = &q
	}

	item, err := services.AddItem(h.DB, userID, listID, input)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFoundResponse(c, "Shopping list not found")
		}
		log.Printf("add item to list %d failed for user %s: %v", listID, userID, err)
		return utils.UpstreamResponse(c, "shoppingItems.add")
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateShoppingItem handles PUT /api/shopping-lists/:id/items/:itemId
// @Summary Update a shopping list item
// @Description Apply a partial update to an item of an owned list
// @Tags ShoppingItems
// @Accept json
// @Produce json
// @Param id path int true "Shopping list ID"
// @Param itemId path int true "Item ID"
// @Param request body updateItemRequest true "Fields to change"
// @Success 200 {object} models.ShoppingListItem
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /shopping-lists/{id}/items/{itemId} [put]
func (h *ShoppingItemHandler) UpdateShoppingItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "auth.session")
	}

	listID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.NotFoundResponse(c, "Item not found")
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		return utils.NotFoundResponse(c, "Item not found")
	}

	var req updateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.InvalidInputResponse(c, "Invalid request body")
	}
	if req.ItemName != nil && trimmed(*req.ItemName) == "" {
		return utils.InvalidInputResponse(c, "item_name must not be empty")
	}

	patch := services.ItemPatch{
		IngredientID: req.IngredientID,
		Unit:         req.Unit,
		Category:     req.Category,
		IsChecked:    req.IsChecked,
		Position:     req.Position,
		Notes:        req.Notes,
	}
	if req.ItemName != nil {
		name := trimmed(*req.ItemName)
		patch.ItemName = &name
	}
	if req.Quantity != nil {
		q := req.Quantity.Float64()
		patch.Quantity = &q
	}

	item, err := services.UpdateItem(h.DB, userID, listID, itemID, patch)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFoundResponse(c, "Item not found")
		}
		log.Printf("update item %d in list %d failed for user %s: %v", itemID, listID, userID, err)
		return utils.UpstreamResponse(c, "shoppingItems.update")
	}

	return c.Status(fiber.StatusOK).JSON(item)
}

// DeleteShoppingItem handles DELETE /api/shopping-lists/:id/items/:itemId
// @Summary Delete a shopping list item
// @Description Remove an item from an owned list
// @Tags ShoppingItems
// @Produce json
// @Param id path int true "Shopping list ID"
// @Param itemId path int true "Item ID"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /shopping-lists/{id}/items/{itemId} [delete]
func (h *ShoppingItemHandler) DeleteShoppingItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "auth.session")
	}

	listID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.NotFoundResponse(c, "Item not found")
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		return utils.NotFoundResponse(c, "Item not found")
	}

	if err := services.DeleteItem(h.DB, userID, listID, itemID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFoundResponse(c, "Item not found")
		}
		log.Printf("delete item %d in list %d failed for user %s: %v", itemID, listID, userID, err)
		return utils.UpstreamResponse(c, "shoppingItems.delete")
	}

	return utils.SuccessDeleteResponse(c)
}
