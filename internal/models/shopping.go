package models

import (
	"time"
)

// ShoppingList is a user's shopping list. Items are owned exclusively by the
// list and cascade on delete.
type ShoppingList struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string    `gorm:"type:char(36);not null;index" json:"user_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"size:1024" json:"description"`
	IsArchived  bool      `gorm:"not null;default:false" json:"is_archived"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Items []ShoppingListItem `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// ShoppingListItem is a single line on a shopping list. Position is a dense
// zero-based display order assigned at insertion; manual edits may introduce
// ties and those are not repaired.
type ShoppingListItem struct {
	ID           uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ListID       uint64  `gorm:"not null;index:idx_items_list_position" json:"list_id"`
	IngredientID *uint64 `gorm:"index" json:"ingredient_id"`
	ItemName     string  `gorm:"size:255;not null" json:"item_name"`
	Quantity     float64 `gorm:"not null;default:1" json:"quantity"`
	Unit         string  `gorm:"size:64" json:"unit"`
	Category     string  `gorm:"size:64;not null;default:Other" json:"category"`
	IsChecked    bool    `gorm:"not null;default:false" json:"is_checked"`
	Position     int     `gorm:"not null;default:0;index:idx_items_list_position" json:"position"`
	Notes        string  `gorm:"size:1024" json:"notes"`
}

// TableName overrides the table name for ShoppingList
func (ShoppingList) TableName() string {
	return "shopping_lists"
}

// TableName overrides the table name for ShoppingListItem
func (ShoppingListItem) TableName() string {
	return "shopping_list_items"
}
