package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/models"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/services"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/types"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/utils"
	"gorm.io/gorm"
)

// InventoryHandler handles inventory routes
type InventoryHandler struct {
	DB *gorm.DB
}

type createInventoryRequest struct {
	ItemName       string             `json:"item_name"`
	Quantity       *types.FlexFloat64 `json:"quantity"`
	Unit           string             `json:"unit"`
	Location       string             `json:"location"`
	ExpirationDate string             `json:"expiration_date"`
	MinQuantity    *types.FlexFloat64 `json:"min_quantity"`
	Notes          string             `json:"notes"`
}

type updateInventoryRequest struct {
	ItemName       *string            `json:"item_name"`
	Quantity       *types.FlexFloat64 `json:"quantity"`
	Unit           *string            `json:"unit"`
	Location       *string            `json:"location"`
	ExpirationDate *string            `json:"expiration_date"`
	MinQuantity    *types.FlexFloat64 `json:"min_quantity"`
	Notes          *string            `json:"notes"`
}

// validLocation reports whether loc is one of the known storage locations.
func validLocation(loc string) bool {
	switch loc {
	case models.LocationFridge, models.LocationFreezer, models.LocationPantry, models.LocationOther:
		return true
	}
	return false
}

// GetInventory handles GET /api/inventory
// @Summary List inventory
// @Description Get all inventory items for the authenticated user, soonest expiration first
// @Tags Inventory
// @Produce json
// @Success 200 {array} models.InventoryItem
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /inventory [get]
func (h *InventoryHandler) GetInventory(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "auth.session")
	}

	items, err := services.GetInventory(h.DB, userID)
	if err != nil {
		log.Printf("get inventory failed for user %s: %v", userID, err)
		return utils.UpstreamResponse(c, "inventory.list")
	}

	return c.Status(fiber.StatusOK).JSON(items)
}

// CreateInventoryItem handles POST /api/inventory
// @Summary Create an inventory item
// @Description Add an inventory item manually
// @Tags Inventory
// @Accept json
// @Produce json
// @Param request body createInventoryRequest true "Item fields"
// @Success 201 {object} models.InventoryItem
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /inventory [post]
func (h *InventoryHandler) CreateInventoryItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "auth.session")
	}

	var req createInventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.InvalidInputResponse(c, "Invalid request body")
	}
	name := trimmed(req.ItemName)
	if name == "" {
		return utils.InvalidInputResponse(c, "item_name is required")
	}
	if loc := trimmed(req.Location); loc != "" && !validLocation(loc) {
		return utils.InvalidInputResponse(c, "location must be one of fridge, freezer, pantry, other")
	}

	input := services.InventoryInput{
		ItemName: name,
		Unit:     trimmed(req.Unit),
		Location: trimmed(req.Location),
		Notes:    req.Notes,
	}
	if req.Quantity != nil {
		q := req.Quantity.Float64()
		input.Quantity = &q
	}
	if req.MinQuantity != nil {
		m := req.MinQuantity.Float64()
		input.MinQuantity = &m
	}
	if trimmed(req.ExpirationDate) != "" {
		exp, err := parseDate(req.ExpirationDate)
		if err != nil {
			return utils.InvalidInputResponse(c, "expiration_date must be an ISO date (YYYY-MM-DD)")
		}
		input.ExpirationDate = &exp
	}

	item, err := services.CreateInventoryItem(h.DB, userID, input)
	if err != nil {
		log.Printf("create inventory item failed for user %s: %v", userID, err)
		return utils.UpstreamResponse(c, "inventory.create")
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateInventoryItem handles PUT /api/inventory/:id
// @Summary Update an inventory item
// @Description Apply a partial update to an owned inventory item. An empty expiration_date clears the date.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path int true "Inventory item ID"
// @Param request body updateInventoryRequest true "Fields to change"
// @Success 200 {object} models.InventoryItem
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /inventory/{id} [put]
func (h *InventoryHandler) UpdateInventoryItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "auth.session")
	}

	itemID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.NotFoundResponse(c, "Inventory item not found")
	}

	var req updateInventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.InvalidInputResponse(c, "Invalid request body")
	}
	if req.ItemName != nil && trimmed(*req.ItemName) == "" {
		return utils.InvalidInputResponse(c, "item_name must not be empty")
	}

	patch := services.InventoryPatch{
		Unit:  req.Unit,
		Notes: req.Notes,
	}
	if req.Location != nil {
		loc := trimmed(*req.Location)
		if !validLocation(loc) {
			return utils.InvalidInputResponse(c, "location must be one of fridge, freezer, pantry, other")
		}
		patch.Location = &loc
	}
	if req.ItemName != nil {
		name := trimmed(*req.ItemName)
		patch.ItemName = &name
	}
	if req.Quantity != nil {
		q := req.Quantity.Float64()
		patch.Quantity = &q
	}
	if req.MinQuantity != nil {
		m := req.MinQuantity.Float64()
		patch.MinQuantity = &m
	}
	if req.ExpirationDate != nil {
		if trimmed(*req.ExpirationDate) == "" {
			// Explicit empty string clears the expiration date.
			zero := time.Time{}
			patch.ExpirationDate = &zero
		} else {
			exp, err := parseDate(*req.ExpirationDate)
			if err != nil {
				return utils.InvalidInputResponse(c, "expiration_date must be an ISO date (YYYY-MM-DD)")
			}
			patch.ExpirationDate = &exp
		}
	}

	item, err := services.UpdateInventoryItem(h.DB, userID, itemID, patch)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFoundResponse(c, "Inventory item not found")
		}
		log.Printf("update inventory item %d failed for user %s: %v", itemID, userID, err)
		return utils.UpstreamResponse(c, "inventory.update")
	}

	return c.Status(fiber.StatusOK).JSON(item)
}

// DeleteInventoryItem handles DELETE /api/inventory/:id
// @Summary Delete an inventory item
// @Tags Inventory
// @Produce json
// @Param id path int true "Inventory item ID"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /inventory/{id} [delete]
func (h *InventoryHandler) DeleteInventoryItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "auth.session")
	}

	itemID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.NotFoundResponse(c, "Inventory item not found")
	}

	if err := services.DeleteInventoryItem(h.DB, userID, itemID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFoundResponse(c, "Inventory item not found")
		}
		log.Printf("delete inventory item %d failed for user %s: %v", itemID, userID, err)
		return utils.UpstreamResponse(c, "inventory.delete")
	}

	return utils.SuccessDeleteResponse(c)
}
