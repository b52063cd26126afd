package models

import (
	"time"
)

// Recipe is the read-side recipe catalog row. The catalog is maintained by
// the import tooling, this service only reads it.
type Recipe struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"size:1024" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Ingredient is the read-side ingredient catalog row.
type Ingredient struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"size:255;not null;index" json:"name"`
	Unit     string `gorm:"size:64" json:"unit"`
	Category string `gorm:"size:64" json:"category"`
}

// RecipeIngredient maps a recipe to an ingredient with a relative quantity.
// RelativeQuantityPercent scales one standard serving: 100 means one full
// serving's worth, nil is treated as 100.
type RecipeIngredient struct {
	ID                      uint64   `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipeID                uint64   `gorm:"not null;index:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID            uint64   `gorm:"not null;index:idx_recipe_ingredient" json:"ingredient_id"`
	RelativeQuantityPercent *float64 `json:"relative_quantity_percent"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}

// PlannedMeal is a calendar entry placing a recipe on a date. RecipeID is
// nullable: free-text meals have no recipe and never feed list generation.
type PlannedMeal struct {
	ID       uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   string    `gorm:"type:char(36);not null;index:idx_meal_user_date" json:"user_id"`
	Date     time.Time `gorm:"type:date;not null;index:idx_meal_user_date" json:"date"`
	MealType string    `gorm:"size:32;not null" json:"meal_type"`
	RecipeID *uint64   `gorm:"index" json:"recipe_id"`

	Recipe *Recipe `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`
}

// TableName overrides the table name for Recipe
func (Recipe) TableName() string {
	return "recipes"
}

// TableName overrides the table name for Ingredient
func (Ingredient) TableName() string {
	return "ingredients"
}

// TableName overrides the table name for RecipeIngredient
func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// TableName overrides the table name for PlannedMeal
func (PlannedMeal) TableName() string {
	return "planned_meals"
}
