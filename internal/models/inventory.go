package models

import (
	"time"

	"gorm.io/datatypes"
)

// Inventory storage locations.
const (
	LocationFridge  = "fridge"
	LocationFreezer = "freezer"
	LocationPantry  = "pantry"
	LocationOther   = "other"
)

// InventoryItem is a stock record owned by one user. Location and
// ExpirationDate are defaulted from the source item's category when created
// by a transfer.
type InventoryItem struct {
	ID             uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         string     `gorm:"type:char(36);not null;index" json:"user_id"`
	ItemName       string     `gorm:"size:255;not null" json:"item_name"`
	Quantity       float64    `gorm:"not null;default:1" json:"quantity"`
	Unit           string     `gorm:"size:64" json:"unit"`
	Location       string     `gorm:"size:16;not null;default:pantry" json:"location"`
	ExpirationDate *time.Time `gorm:"type:date" json:"expiration_date"`
	MinQuantity    float64    `gorm:"not null;default:0" json:"min_quantity"`
	Notes          string     `gorm:"size:1024" json:"notes"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ListTransfer records one shopping-list-to-inventory transfer for audit and
// undo. ItemIDs and InventoryIDs snapshot the originating shopping-list item
// ids and the created inventory item ids as JSON arrays; only the most recent
// transfer per list is undoable.
type ListTransfer struct {
	ID               uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	ListID           uint64         `gorm:"not null;index" json:"list_id"`
	UserID           string         `gorm:"type:char(36);not null;index" json:"user_id"`
	TransferredCount int            `gorm:"not null" json:"transferred_count"`
	ItemIDs          datatypes.JSON `gorm:"type:json" json:"item_ids"`
	InventoryIDs     datatypes.JSON `gorm:"type:json" json:"inventory_ids"`
	TransferredAt    time.Time      `gorm:"not null;index" json:"transferred_at"`
}

// TableName overrides the table name for InventoryItem
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// TableName overrides the table name for ListTransfer
func (ListTransfer) TableName() string {
	return "list_transfers"
}
