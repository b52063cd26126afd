package services

import (
	"errors"
	"time"

	"github.com/sdxshuai/Epicourier-Web-sub001/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a row is absent or owned by a different user.
// Handlers map both cases to the same 404 so existence never leaks.
var ErrNotFound = errors.New("not found")

// ItemInput is the payload for adding a shopping-list item. Quantity nil
// defaults to 1; a present-but-invalid quantity is rejected upstream by
// types.FlexFloat64 before this struct is ever populated.
type ItemInput struct {
	ItemName     string
	IngredientID *uint64
	Quantity     *float64
	Unit         string
	Category     string
	Notes        string
}

// ItemPatch holds partial updates for an item. Nil fields are left untouched.
type ItemPatch struct {
	ItemName     *string
	IngredientID *uint64
	Quantity     *float64
	Unit         *string
	Category     *string
	IsChecked    *bool
	Position     *int
	Notes        *string
}

// ListPatch holds partial updates for a list. Nil fields are left untouched.
type ListPatch struct {
	Name        *string
	Description *string
	IsArchived  *bool
}

// CreateList creates an empty shopping list for a user.
func CreateList(db *gorm.DB, userID, name, description string) (*models.ShoppingList, error) {
	list := models.ShoppingList{
		UserID:      userID,
		Name:        name,
		Description: description,
	}
	if err := db.Create(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// GetLists returns all lists for a user, most recently updated first, without
// items.
func GetLists(db *gorm.DB, userID string) ([]models.ShoppingList, error) {
	var lists []models.ShoppingList
	err := db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&lists).Error
	if err != nil {
		return nil, err
	}
	return lists, nil
}

// GetList returns one owned list with its items sorted by position.
func GetList(db *gorm.DB, userID string, listID uint64) (*models.ShoppingList, error) {
	var list models.ShoppingList
	err := db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC, id ASC")
	}).
		Where("id = ? AND user_id = ?", listID, userID).
		First(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &list, nil
}

// UpdateList applies a partial update to an owned list.
func UpdateList(db *gorm.DB, userID string, listID uint64, patch ListPatch) (*models.ShoppingList, error) {
	var list models.ShoppingList
	err := db.Where("id = ? AND user_id = ?", listID, userID).First(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.IsArchived != nil {
		updates["is_archived"] = *patch.IsArchived
	}

	if len(updates) > 0 {
		if err := db.Model(&list).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return &list, nil
}

// DeleteList deletes an owned list and its items.
func DeleteList(db *gorm.DB, userID string, listID uint64) error {
	var list models.ShoppingList
	err := db.Where("id = ? AND user_id = ?", listID, userID).First(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		// The FK cascades on real deployments; the explicit delete keeps
		// sqlite setups without foreign_keys enabled consistent too.
		if err := tx.Where("list_id = ?", list.ID).Delete(&models.ShoppingListItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&list).Error
	})
}

// AddItem appends an item to an owned list at position max+1 and bumps the
// list's updated_at.
func AddItem(db *gorm.DB, userID string, listID uint64, input ItemInput) (*models.ShoppingListItem, error) {
	var list models.ShoppingList
	err := db.Where("id = ? AND user_id = ?", listID, userID).First(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	quantity := 1.0
	if input.Quantity != nil {
		quantity = *input.Quantity
	}
	category := input.Category
	if category == "" {
		category = "Other"
	}

	var item models.ShoppingListItem
	err = db.Transaction(func(tx *gorm.DB) error {
		var maxPosition *int
		if err := tx.Model(&models.ShoppingListItem{}).
			Where("list_id = ?", list.ID).
			Select("MAX(position)").
			Scan(&maxPosition).Error; err != nil {
			return err
		}
		position := 0
		if maxPosition != nil {
			position = *maxPosition + 1
		}

		item = models.ShoppingListItem{
			ListID:       list.ID,
			IngredientID: input.IngredientID,
			ItemName:     input.ItemName,
			Quantity:     quantity,
			Unit:         input.Unit,
			Category:     category,
			Position:     position,
			Notes:        input.Notes,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return touchList(tx, list.ID)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem applies a partial update to an item on an owned list. An empty
// patch changes nothing on the item but still bumps the parent list's
// updated_at.
func UpdateItem(db *gorm.DB, userID string, listID, itemID uint64, patch ItemPatch) (*models.ShoppingListItem, error) {
	item, err := findOwnedItem(db, userID, listID, itemID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.ItemName != nil {
		updates["item_name"] = *patch.ItemName
	}
	if patch.IngredientID != nil {
		updates["ingredient_id"] = *patch.IngredientID
	}
	if patch.Quantity != nil {
		updates["quantity"] = *patch.Quantity
	}
	if patch.Unit != nil {
		updates["unit"] = *patch.Unit
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.IsChecked != nil {
		updates["is_checked"] = *patch.IsChecked
	}
	if patch.Position != nil {
		updates["position"] = *patch.Position
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(item).Updates(updates).Error; err != nil {
				return err
			}
		}
		return touchList(tx, listID)
	})
	if err != nil {
		return nil, err
	}

	// Re-read so the response reflects exactly what was persisted
	if err := db.First(item, item.ID).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an item from an owned list and bumps the list's
// updated_at. Positions of later items are left as-is; gaps are tolerated.
func DeleteItem(db *gorm.DB, userID string, listID, itemID uint64) error {
	item, err := findOwnedItem(db, userID, listID, itemID)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(item).Error; err != nil {
			return err
		}
		return touchList(tx, listID)
	})
}

// findOwnedItem resolves an item through its list's ownership. A wrong owner,
// wrong list, or missing item all collapse into ErrNotFound.
func findOwnedItem(db *gorm.DB, userID string, listID, itemID uint64) (*models.ShoppingListItem, error) {
	var list models.ShoppingList
	err := db.Where("id = ? AND user_id = ?", listID, userID).First(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var item models.ShoppingListItem
	err = db.Where("id = ? AND list_id = ?", itemID, list.ID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func touchList(tx *gorm.DB, listID uint64) error {
	return tx.Model(&models.ShoppingList{}).
		Where("id = ?", listID).
		Update("updated_at", time.Now().UTC()).Error
}
