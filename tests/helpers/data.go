// data.go
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

package helpers

import (
	"testing"
	"time"

	"github.com/sdxshuai/Epicourier-Web-sub001/internal/models"
	"gorm.io/gorm"
)

// IngredientSpec describes one recipe ingredient for seeding. A nil Percent
// means one full serving (100).
type IngredientSpec struct {
	Name     string
	Unit     string
	Category string
	Percent  *float64
}

// CreateTestRecipe creates a recipe with its ingredients and mappings,
// reusing ingredients that already exist by name.
func CreateTestRecipe(t *testing.T, db *gorm.DB, name string, ingredients []IngredientSpec) *models.Recipe {
	t.Helper()

	recipe := models.Recipe{Name: name}
	if err := db.Create(&recipe).Error; err != nil {
		t.Fatalf("Failed to create recipe %s: %v", name, err)
	}

	for _, spec := range ingredients {
		var ing models.Ingredient
		err := db.Where("name = ?", spec.Name).First(&ing).Error
		if err == gorm.ErrRecordNotFound {
			ing = models.Ingredient{Name: spec.Name, Unit: spec.Unit, Category: spec.Category}
			err = db.Create(&ing).Error
		}
		if err != nil {
			t.Fatalf("Failed to create ingredient %s: %v", spec.Name, err)
		}

		mapping := models.RecipeIngredient{
			RecipeID:                recipe.ID,
			IngredientID:            ing.ID,
			RelativeQuantityPercent: spec.Percent,
		}
		if err := db.Create(&mapping).Error; err != nil {
			t.Fatalf("Failed to map ingredient %s to recipe %s: %v", spec.Name, name, err)
		}
	}

	return &recipe
}

// CreateTestPlannedMeal places a recipe on a user's calendar
func CreateTestPlannedMeal(t *testing.T, db *gorm.DB, userID string, date time.Time, mealType string, recipeID *uint64) *models.PlannedMeal {
	t.Helper()

	meal := models.PlannedMeal{
		UserID:   userID,
		Date:     date,
		MealType: mealType,
		RecipeID: recipeID,
	}
	if err := db.Create(&meal).Error; err != nil {
		t.Fatalf("Failed to create planned meal: %v", err)
	}
	return &meal
}

// CreateTestList creates a shopping list with items at dense positions
func CreateTestList(t *testing.T, db *gorm.DB, userID, name string, items []models.ShoppingListItem) *models.ShoppingList {
	t.Helper()

	list := models.ShoppingList{UserID: userID, Name: name}
	if err := db.Create(&list).Error; err != nil {
		t.Fatalf("Failed to create shopping list %s: %v", name, err)
	}

	for i := range items {
		items[i].ListID = list.ID
		items[i].Position = i
		if err := db.Create(&items[i]).Error; err != nil {
			t.Fatalf("Failed to create item %s: %v", items[i].ItemName, err)
		}
	}

	return &list
}
