package services

import (
	"errors"
	"time"

	"github.com/sdxshuai/Epicourier-Web-sub001/internal/models"
	"gorm.io/gorm"
)

// InventoryInput is the payload for manual inventory entry. Quantity nil
// defaults to 1, Location empty defaults to pantry.
type InventoryInput struct {
	ItemName       string
	Quantity       *float64
	Unit           string
	Location       string
	ExpirationDate *time.Time
	MinQuantity    *float64
	Notes          string
}

// InventoryPatch holds partial updates for an inventory item.
type InventoryPatch struct {
	ItemName       *string
	Quantity       *float64
	Unit           *string
	Location       *string
	ExpirationDate *time.Time
	MinQuantity    *float64
	Notes          *string
}

// GetInventory returns all inventory items for a user, soonest expiration
// first with undated items last.
func GetInventory(db *gorm.DB, userID string) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := db.Where("user_id = ?", userID).
		Order("expiration_date IS NULL, expiration_date ASC, item_name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// CreateInventoryItem creates a manually entered inventory item.
func CreateInventoryItem(db *gorm.DB, userID string, input InventoryInput) (*models.InventoryItem, error) {
	quantity := 1.0
	if input.Quantity != nil {
		quantity = *input.Quantity
	}
	location := input.Location
	if location == "" {
		location = models.LocationPantry
	}
	minQuantity := 0.0
	if input.MinQuantity != nil {
		minQuantity = *input.MinQuantity
	}

	item := models.InventoryItem{
		UserID:         userID,
		ItemName:       input.ItemName,
		Quantity:       quantity,
		Unit:           input.Unit,
		Location:       location,
		ExpirationDate: input.ExpirationDate,
		MinQuantity:    minQuantity,
		Notes:          input.Notes,
	}
	if err := db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateInventoryItem applies a partial update to an owned inventory item.
func UpdateInventoryItem(db *gorm.DB, userID string, itemID uint64, patch InventoryPatch) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := db.Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.ItemName != nil {
		updates["item_name"] = *patch.ItemName
	}
	if patch.Quantity != nil {
		updates["quantity"] = *patch.Quantity
	}
	if patch.Unit != nil {
		updates["unit"] = *patch.Unit
	}
	if patch.Location != nil {
		updates["location"] = *patch.Location
	}
	if patch.ExpirationDate != nil {
		if patch.ExpirationDate.IsZero() {
			// A zero time clears the date back to NULL.
			updates["expiration_date"] = nil
		} else {
			updates["expiration_date"] = *patch.ExpirationDate
		}
	}
	if patch.MinQuantity != nil {
		updates["min_quantity"] = *patch.MinQuantity
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}

	if len(updates) > 0 {
		if err := db.Model(&item).Updates(updates).Error; err != nil {
			return nil, err
		}
		if err := db.First(&item, item.ID).Error; err != nil {
			return nil, err
		}
	}
	return &item, nil
}

// DeleteInventoryItem removes an owned inventory item.
func DeleteInventoryItem(db *gorm.DB, userID string, itemID uint64) error {
	var item models.InventoryItem
	err := db.Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return db.Delete(&item).Error
}
