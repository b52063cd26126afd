// shopping_lists.go
//
// A meal planning and grocery list service
// Copyright (c) 2026 Epicourier
//
// This file is part of epicourier.
// epicourier is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// epicourier is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with epicourier.
// If not, see <https://www.gnu.org/licenses/>.

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

// ShoppingListHandler handles shopping list routes
type ShoppingListHandler struct {
	DB *gorm.DB
}

type generateListRequest struct {
	Name      string                 `json:"name"`
	StartDate string                 `json:"startDate"`
	EndDate   string                 `json:"endDate"`
	MealTypes types.FlexList[string] `json:"mealTypes"`
}

type createListRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateListRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsArchived  *bool   `json:"is_archived"`
}

type transferRequest struct {
	ItemIDs []uint64 `json:"itemIds"`
}

// GenerateShoppingList handles POST /api/shopping-lists/generate
// @Summary Generate a shopping list from planned meals
// @Description Aggregate the recipe ingredients of every planned meal in an inclusive date range into a new shopping list
// @Tags ShoppingLists
// @Accept json
// @Produce json
// @Param request body generateListRequest true "Generation parameters"
// @Success 200 {object} services.GenerateSummary
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /shopping-lists/generate [post]
func (h *ShoppingListHandler) GenerateShoppingList(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "auth.session")
	}

	var req generateListRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.InvalidInputResponse(c, "Invalid request body")
	}
	if trimmed(req.StartDate) == "" || trimmed(req.EndDate) == "" {
		return utils.InvalidInputResponse(c, "startDate and endDate are required")
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return utils.InvalidInputResponse(c, "startDate must be an ISO date (YYYY-MM-DD)")
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return utils.InvalidInputResponse(c, "endDate must be an ISO date (YYYY-MM-DD)")
	}

	outcome, err := services.GenerateList(h.DB, userID, services.GenerateInput{
		Name:      trimmed(req.Name),
		StartDate: start,
		EndDate:   end,
		MealTypes: req.MealTypes.Slice(),
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidRange) {
			return utils.InvalidInputResponse(c, "endDate must not be before startDate")
		}
		if errors.Is(err, services.ErrNoMealsFound) {
			return utils.NotFoundResponse(c, "No meals found in the selected date range")
		}
		log.Printf("generate shopping list failed for user %s: %v", userID, err)
		return utils.UpstreamResponse(c, "shoppingLists.generate")
	}

	// A created list with failed item inserts still reports success with
	// item_count 0; the cause is only logged.
	if outcome.ItemsErr != nil {
		log.Printf("generate shopping list %d: item insert failed: %v", outcome.Summary.ListID, outcome.ItemsErr)
	}

	return c.Status(fiber.StatusOK).JSON(outcome.Summary)
}

// GetShoppingLists handles GET /api/shopping-lists
// @Summary List shopping lists
// @Description Get all shopping lists owned by the authenticated user, most recently updated first
// @Tags ShoppingLists
// @Produce json
// @Success 200 {array} models.ShoppingList
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /shopping-lists [get]
func (h *ShoppingListHandler) GetShoppingLists(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "auth.session")
	}

	lists, err := services.GetLists(h.DB, userID)
	if err != nil {
		log.Printf("get shopping lists failed for user %s: %v", userID, err)
		return utils.UpstreamResponse(c, "shoppingLists.list")
	}

	return c.Status(fiber.StatusOK).JSON(lists)
}

// GetShoppingList handles GET /api/shopping-lists/:id
// @Summary Get one shopping list
// @Description Get an owned shopping list with its items sorted by position
// @Tags ShoppingLists
// @Produce json
// @Param id path int true "Shopping list ID"
// @Success 200 {object} models.ShoppingList
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /shopping-lists/{id} [get]
func (h *ShoppingListHandler) GetShoppingList(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "auth.session")
	}

	listID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.NotFoundResponse(c, "Shopping list not found")
	}

	list, err := services.GetList(h.DB, userID, listID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFoundResponse(c, "Shopping list not found")
		}
		log.Printf("get shopping list %d failed for user %s: %v", listID, userID, err)
		return utils.UpstreamResponse(c, "shoppingLists.get")
	}

	return c.Status(fiber.StatusOK).JSON(list)
}

// CreateShoppingList handles POST /api/shopping-lists
// @Summary Create a shopping list
// @Description Create an empty shopping list
// @Tags ShoppingLists
// @Accept json
// @Produce json
// @Param request body createListRequest true "List name and optional description"
// @Success 201 {object} models.ShoppingList
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /shopping-lists [post]
func (h *ShoppingListHandler) CreateShoppingList(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "auth.session")
	}

	var req createListRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.InvalidInputResponse(c, "Invalid request body")
	}
	name := trimmed(req.Name)
	if name == "" {
		return utils.InvalidInputResponse(c, "name is required")
	}

	list, err := services.CreateList(h.DB, userID, name, trimmed(req.Description))
	if err != nil {
		log.Printf("create shopping list failed for user %s: %v", userID, err)
		return utils.UpstreamResponse(c, "shoppingLists.create")
	}

	return c.Status(fiber.StatusCreated).JSON(list)
}

// UpdateShoppingList handles PUT /api/shopping-lists/:id
// @Summary Update a shopping list
// @Description Apply a partial update to an owned shopping list
// @Tags ShoppingLists
// @Accept json
// @Produce json
// @Param id path int true "Shopping list ID"
// @Param request body updateListRequest true "Fields to change"
// @Success 200 {object} models.ShoppingList
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /shopping-lists/{id} [put]
func (h *ShoppingListHandler) UpdateShoppingList(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "auth.session")
	}

	listID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.NotFoundResponse(c, "Shopping list not found")
	}

	var req updateListRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.InvalidInputResponse(c, "Invalid request body")
	}
	if req.Name != nil && trimmed(*req.Name) == "" {
		return utils.InvalidInputResponse(c, "name must not be empty")
	}

	patch := services.ListPatch{
		Description: req.Description,
		IsArchived:  req.IsArchived,
	}
	if req.Name != nil {
		name := trimmed(*req.Name)
		patch.Name = &name
	}

	list, err := services.UpdateList(h.DB, userID, listID, patch)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFoundResponse(c, "Shopping list not found")
		}
		log.Printf("update shopping list %d failed for user %s: %v", listID, userID, err)
		return utils.UpstreamResponse(c, "shoppingLists.update")
	}

	return c.Status(fiber.StatusOK).JSON(list)
}

// DeleteShoppingList handles DELETE /api/shopping-lists/:id
// @Summary Delete a shopping list
// @Description Delete an owned shopping list and all its items. Deleting an absent list still reports success.
// @Tags ShoppingLists
// @Produce json
// @Param id path int true "Shopping list ID"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /shopping-lists/{id} [delete]
func (h *ShoppingListHandler) DeleteShoppingList(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "auth.session")
	}

	listID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SuccessDeleteResponse(c)
	}

	if err := services.DeleteList(h.DB, userID, listID); err != nil {
		// Idempotent: deleting a list that is already gone is not an error.
		if errors.Is(err, services.ErrNotFound) {
			return utils.SuccessDeleteResponse(c)
		}
		log.Printf("delete shopping list %d failed for user %s: %v", listID, userID, err)
		return utils.UpstreamResponse(c, "shoppingLists.delete")
	}

	return utils.SuccessDeleteResponse(c)
}

// TransferCheckedItems handles POST /api/shopping-lists/:id/transfer
// @Summary Transfer checked items to inventory
// @Description Convert the checked items of an owned list into inventory items with category-derived location and expiration defaults
// @Tags ShoppingLists
// @Accept json
// @Produce json
// @Param id path int true "Shopping list ID"
// @Param request body transferRequest false "Optional subset of item IDs"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /shopping-lists/{id}/transfer [post]
func (h *ShoppingListHandler) TransferCheckedItems(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "auth.session")
	}

	listID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.NotFoundResponse(c, "Shopping list not found")
	}

	// The body is optional; only parse one that is actually present.
	var req transferRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.InvalidInputResponse(c, "Invalid request body")
		}
	}

	result, err := services.TransferCheckedItems(h.DB, userID, listID, req.ItemIDs)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFoundResponse(c, "Shopping list not found")
		}
		if errors.Is(err, services.ErrNothingToTransfer) {
			return utils.NotFoundResponse(c, "No checked items to transfer")
		}
		var transferErr *services.TransferError
		if errors.As(err, &transferErr) {
			// Partial failure: report how far the transfer got.
			log.Printf("transfer for list %d failed partially: %v", listID, transferErr)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success":           false,
				"transferred_count": transferErr.Partial.TransferredCount,
				"message":           "Transfer failed after some items were moved",
			})
		}
		log.Printf("transfer for list %d failed for user %s: %v", listID, userID, err)
		return utils.UpstreamResponse(c, "shoppingLists.transfer")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":           true,
		"transferred_count": result.TransferredCount,
		"items":             result.Items,
	})
}

// UndoTransfer handles POST /api/shopping-lists/:id/transfer/undo
// @Summary Undo the most recent transfer
// @Description Remove the inventory items created by the last transfer and restore the source items to unchecked
// @Tags ShoppingLists
// @Produce json
// @Param id path int true "Shopping list ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /shopping-lists/{id}/transfer/undo [post]
func (h *ShoppingListHandler) UndoTransfer(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "auth.session")
	}

	listID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.NotFoundResponse(c, "Shopping list not found")
	}

	result, err := services.UndoTransfer(h.DB, userID, listID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFoundResponse(c, "Shopping list not found")
		}
		if errors.Is(err, services.ErrNoTransferToUndo) {
			return utils.NotFoundResponse(c, "No transfer to undo")
		}
		log.Printf("undo transfer for list %d failed for user %s: %v", listID, userID, err)
		return utils.UpstreamResponse(c, "shoppingLists.transferUndo")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":        true,
		"removed_count":  result.RemovedCount,
		"restored_count": result.RestoredCount,
	})
}
