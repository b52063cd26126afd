// transfer_service.go
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

package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sdxshuai/Epicourier-Web-sub001/internal/categories"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/models"
	"gorm.io/gorm"
)

// ErrNothingToTransfer is returned when the list has no checked items (or
// none matching the requested filter).
var ErrNothingToTransfer = errors.New("no checked items to transfer")

// ErrNoTransferToUndo is returned by UndoTransfer when the list has no
// recorded transfer. A reported failure, not a crash.
var ErrNoTransferToUndo = errors.New("no transfer to undo")

// TransferResult reports a transfer. On failure mid-way, TransferredCount
// still carries the number of inventory items created before the error, so
// partial success is visible to the caller.
type TransferResult struct {
	TransferredCount int                    `json:"transferred_count"`
	Items            []models.InventoryItem `json:"items"`
}

// TransferError wraps a persistence failure together with the partial result
// accumulated before it.
type TransferError struct {
	Partial TransferResult
	Err     error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer failed after %d items: %v", e.Partial.TransferredCount, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// TransferCheckedItems converts the checked items of an owned list into
// inventory items. Location and expiration come from the category defaults
// table, min quantity is ceil(quantity*0.5). itemIDs optionally restricts the
// transfer to a subset of the checked items.
func TransferCheckedItems(db *gorm.DB, userID string, listID uint64, itemIDs []uint64) (*TransferResult, error) {
	var list models.ShoppingList
	err := db.Where("id = ? AND user_id = ?", listID, userID).First(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	itemQuery := db.Where("list_id = ? AND is_checked = ?", list.ID, true)
	if len(itemIDs) > 0 {
		itemQuery = itemQuery.Where("id IN ?", itemIDs)
	}
	var items []models.ShoppingListItem
	if err := itemQuery.Order("position ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNothingToTransfer
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	note := fmt.Sprintf("Transferred from shopping list on %s", today.Format("2006-01-02"))

	result := &TransferResult{}
	sourceIDs := make([]uint64, 0, len(items))
	inventoryIDs := make([]uint64, 0, len(items))

	// Sequential creates, deliberately not transactional: a failure part-way
	// reports what made it in rather than rolling everything back.
	for _, item := range items {
		defaults := categories.Lookup(item.Category)
		inv := models.InventoryItem{
			UserID:         userID,
			ItemName:       item.ItemName,
			Quantity:       item.Quantity,
			Unit:           item.Unit,
			Location:       defaults.Location,
			ExpirationDate: categories.ExpirationFrom(item.Category, today),
			MinQuantity:    math.Ceil(item.Quantity * 0.5),
			Notes:          note,
		}
		if err := db.Create(&inv).Error; err != nil {
			return nil, &TransferError{Partial: *result, Err: err}
		}
		result.Items = append(result.Items, inv)
		result.TransferredCount++
		sourceIDs = append(sourceIDs, item.ID)
		inventoryIDs = append(inventoryIDs, inv.ID)
	}

	record, err := newTransferRecord(list.ID, userID, sourceIDs, inventoryIDs)
	if err != nil {
		return nil, &TransferError{Partial: *result, Err: err}
	}
	if err := db.Create(record).Error; err != nil {
		return nil, &TransferError{Partial: *result, Err: err}
	}

	return result, nil
}

// UndoResult reports an undo: inventory items removed and source items
// restored to unchecked.
type UndoResult struct {
	RemovedCount  int `json:"removed_count"`
	RestoredCount int `json:"restored_count"`
}

// UndoTransfer reverses the most recent transfer for an owned list: the
// created inventory items are deleted and the originating shopping-list items
// are re-marked unchecked. Only one level of undo exists; the record is
// consumed.
func UndoTransfer(db *gorm.DB, userID string, listID uint64) (*UndoResult, error) {
	var list models.ShoppingList
	err := db.Where("id = ? AND user_id = ?", listID, userID).First(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var record models.ListTransfer
	err = db.Where("list_id = ? AND user_id = ?", list.ID, userID).
		Order("transferred_at DESC, id DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoTransferToUndo
		}
		return nil, err
	}

	var sourceIDs, inventoryIDs []uint64
	if err := json.Unmarshal(record.ItemIDs, &sourceIDs); err != nil {
		return nil, fmt.Errorf("corrupt transfer record %d: %w", record.ID, err)
	}
	if err := json.Unmarshal(record.InventoryIDs, &inventoryIDs); err != nil {
		return nil, fmt.Errorf("corrupt transfer record %d: %w", record.ID, err)
	}

	result := &UndoResult{}
	err = db.Transaction(func(tx *gorm.DB) error {
		if len(inventoryIDs) > 0 {
			res := tx.Where("id IN ? AND user_id = ?", inventoryIDs, userID).
				Delete(&models.InventoryItem{})
			if res.Error != nil {
				return res.Error
			}
			result.RemovedCount = int(res.RowsAffected)
		}
		if len(sourceIDs) > 0 {
			res := tx.Model(&models.ShoppingListItem{}).
				Where("id IN ? AND list_id = ?", sourceIDs, list.ID).
				Update("is_checked", false)
			if res.Error != nil {
				return res.Error
			}
			result.RestoredCount = int(res.RowsAffected)
		}
		return tx.Delete(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func newTransferRecord(listID uint64, userID string, sourceIDs, inventoryIDs []uint64) (*models.ListTransfer, error) {
	itemsJSON, err := json.Marshal(sourceIDs)
	if err != nil {
		return nil, err
	}
	invJSON, err := json.Marshal(inventoryIDs)
	if err != nil {
		return nil, err
	}
	return &models.ListTransfer{
		ListID:           listID,
		UserID:           userID,
		TransferredCount: len(sourceIDs),
		ItemIDs:          itemsJSON,
		InventoryIDs:     invJSON,
		TransferredAt:    time.Now().UTC(),
	}, nil
}
