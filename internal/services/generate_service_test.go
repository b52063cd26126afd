package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sdxshuai/Epicourier-Web-sub001/internal/models"
	"gorm.io/gorm"
)

func seedRecipe(t *testing.T, db *gorm.DB, name string, ingredients map[string]*float64) *models.Recipe {
	t.Helper()

	recipe := models.Recipe{Name: name}
	if err := db.Create(&recipe).Error; err != nil {
		t.Fatalf("Failed to create recipe: %v", err)
	}

	// Deterministic mapping order keeps aggregation order stable
	names := make([]string, 0, len(ingredients))
	for n := range ingredients {
		names = append(names, n)
	}
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if names[j] < names[i] {
				names[i], names[j] = names[j], names[i]
			}
		}
	}

	for _, n := range names {
		var ing models.Ingredient
		err := db.Where("name = ?", n).First(&ing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ing = models.Ingredient{Name: n, Unit: "unit"}
			err = db.Create(&ing).Error
		}
		if err != nil {
			t.Fatalf("Failed to create ingredient %s: %v", n, err)
		}
		mapping := models.RecipeIngredient{
			RecipeID:                recipe.ID,
			IngredientID:            ing.ID,
			RelativeQuantityPercent: ingredients[n],
		}
		if err := db.Create(&mapping).Error; err != nil {
			t.Fatalf("Failed to map ingredient: %v", err)
		}
	}

	return &recipe
}

func seedMeal(t *testing.T, db *gorm.DB, userID string, date time.Time, mealType string, recipeID uint64) {
	t.Helper()
	meal := models.PlannedMeal{UserID: userID, Date: date, MealType: mealType, RecipeID: &recipeID}
	if err := db.Create(&meal).Error; err != nil {
		t.Fatalf("Failed to create planned meal: %v", err)
	}
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerateList_AggregatesAcrossMeals(t *testing.T) {
	db := setupTestDB(t)

	pancakes := seedRecipe(t, db, "Pancakes", map[string]*float64{
		"flour": floatPtr(100),
		"milk":  floatPtr(50),
	})
	// Same recipe planned twice: ingredients count twice
	seedMeal(t, db, testUserID, day(2), "breakfast", pancakes.ID)
	seedMeal(t, db, testUserID, day(3), "breakfast", pancakes.ID)

	outcome, err := GenerateList(db, testUserID, GenerateInput{
		StartDate: day(1),
		EndDate:   day(7),
	})
	if err != nil {
		t.Fatalf("GenerateList failed: %v", err)
	}
	if outcome.ItemsErr != nil {
		t.Fatalf("Unexpected items error: %v", outcome.ItemsErr)
	}

	summary := outcome.Summary
	if summary.MealsCount != 2 {
		t.Errorf("Expected 2 meals, got %d", summary.MealsCount)
	}
	if summary.RecipesCount != 1 {
		t.Errorf("Expected 1 recipe, got %d", summary.RecipesCount)
	}
	if summary.ItemCount != 2 {
		t.Errorf("Expected 2 items, got %d", summary.ItemCount)
	}

	list, err := GetList(db, testUserID, summary.ListID)
	if err != nil {
		t.Fatalf("GetList failed: %v", err)
	}
	byName := map[string]models.ShoppingListItem{}
	for _, item := range list.Items {
		byName[item.ItemName] = item
	}
	if byName["flour"].Quantity != 2.0 {
		t.Errorf("Expected flour 2.0, got %v", byName["flour"].Quantity)
	}
	if byName["milk"].Quantity != 1.0 {
		t.Errorf("Expected milk 1.0, got %v", byName["milk"].Quantity)
	}
}

func TestGenerateList_DensePositionsAndDefaults(t *testing.T) {
	db := setupTestDB(t)

	stew := seedRecipe(t, db, "Stew", map[string]*float64{
		"beef":   floatPtr(100),
		"carrot": floatPtr(100),
		"potato": floatPtr(100),
	})
	seedMeal(t, db, testUserID, day(4), "dinner", stew.ID)

	outcome, err := GenerateList(db, testUserID, GenerateInput{StartDate: day(1), EndDate: day(7)})
	if err != nil {
		t.Fatalf("GenerateList failed: %v", err)
	}

	list, _ := GetList(db, testUserID, outcome.Summary.ListID)
	if len(list.Items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(list.Items))
	}
	for i, item := range list.Items {
		if item.Position != i {
			t.Errorf("Item %d: expected position %d, got %d", i, i, item.Position)
		}
		if item.Category != "Other" {
			t.Errorf("Item %s: expected category Other, got %s", item.ItemName, item.Category)
		}
		if item.IsChecked {
			t.Errorf("Item %s: expected unchecked", item.ItemName)
		}
		if item.IngredientID == nil {
			t.Errorf("Item %s: expected ingredient link", item.ItemName)
		}
	}
}

func TestGenerateList_RoundsAtPersistence(t *testing.T) {
	db := setupTestDB(t)

	// 1/3 serving three times accumulates to ~1.0 and persists as 1.0,
	// not 0.33*3
	third := 100.0 / 3
	soup := seedRecipe(t, db, "Soup", map[string]*float64{"broth": &third})
	seedMeal(t, db, testUserID, day(2), "lunch", soup.ID)
	seedMeal(t, db, testUserID, day(3), "lunch", soup.ID)
	seedMeal(t, db, testUserID, day(4), "lunch", soup.ID)

	outcome, err := GenerateList(db, testUserID, GenerateInput{StartDate: day(1), EndDate: day(7)})
	if err != nil {
		t.Fatalf("GenerateList failed: %v", err)
	}

	list, _ := GetList(db, testUserID, outcome.Summary.ListID)
	if len(list.Items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(list.Items))
	}
	if list.Items[0].Quantity != 1.0 {
		t.Errorf("Expected rounded quantity 1.0, got %v", list.Items[0].Quantity)
	}
}

func TestGenerateList_MealTypeFilter(t *testing.T) {
	db := setupTestDB(t)

	salad := seedRecipe(t, db, "Salad", map[string]*float64{"lettuce": floatPtr(100)})
	curry := seedRecipe(t, db, "Curry", map[string]*float64{"rice": floatPtr(100)})
	seedMeal(t, db, testUserID, day(2), "lunch", salad.ID)
	seedMeal(t, db, testUserID, day(2), "dinner", curry.ID)

	outcome, err := GenerateList(db, testUserID, GenerateInput{
		StartDate: day(1),
		EndDate:   day(7),
		MealTypes: []string{"dinner"},
	})
	if err != nil {
		t.Fatalf("GenerateList failed: %v", err)
	}
	if outcome.Summary.MealsCount != 1 {
		t.Errorf("Expected 1 dinner meal, got %d", outcome.Summary.MealsCount)
	}

	list, _ := GetList(db, testUserID, outcome.Summary.ListID)
	if len(list.Items) != 1 || list.Items[0].ItemName != "rice" {
		t.Errorf("Expected only rice, got %+v", list.Items)
	}
}

func TestGenerateList_DefaultNameAndDescription(t *testing.T) {
	db := setupTestDB(t)

	toast := seedRecipe(t, db, "Toast", map[string]*float64{"bread": floatPtr(100)})
	seedMeal(t, db, testUserID, day(2), "breakfast", toast.ID)

	outcome, err := GenerateList(db, testUserID, GenerateInput{StartDate: day(2), EndDate: day(8)})
	if err != nil {
		t.Fatalf("GenerateList failed: %v", err)
	}

	if outcome.Summary.Name != "Shopping List Mar 2 - Mar 8, 2026" {
		t.Errorf("Unexpected default name: %s", outcome.Summary.Name)
	}
	if !strings.HasPrefix(outcome.Summary.Description, "Generated from 1 planned meals (1 recipes): Toast") {
		t.Errorf("Unexpected description: %s", outcome.Summary.Description)
	}
}

func TestGenerateList_CustomNameKept(t *testing.T) {
	db := setupTestDB(t)

	toast := seedRecipe(t, db, "Toast", map[string]*float64{"bread": floatPtr(100)})
	seedMeal(t, db, testUserID, day(2), "breakfast", toast.ID)

	outcome, err := GenerateList(db, testUserID, GenerateInput{
		Name:      "My week",
		StartDate: day(1),
		EndDate:   day(7),
	})
	if err != nil {
		t.Fatalf("GenerateList failed: %v", err)
	}
	if outcome.Summary.Name != "My week" {
		t.Errorf("Expected custom name kept, got %s", outcome.Summary.Name)
	}
}

func TestGenerateList_NoMealsFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := GenerateList(db, testUserID, GenerateInput{StartDate: day(1), EndDate: day(7)})
	if !errors.Is(err, ErrNoMealsFound) {
		t.Fatalf("Expected ErrNoMealsFound, got %v", err)
	}

	// No list may be created on the empty-result path
	var count int64
	db.Model(&models.ShoppingList{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no lists created, got %d", count)
	}
}

func TestGenerateList_IgnoresRecipelessMeals(t *testing.T) {
	db := setupTestDB(t)

	// Free-text meal without a recipe never feeds generation
	meal := models.PlannedMeal{UserID: testUserID, Date: day(3), MealType: "dinner"}
	if err := db.Create(&meal).Error; err != nil {
		t.Fatalf("Failed to create meal: %v", err)
	}

	_, err := GenerateList(db, testUserID, GenerateInput{StartDate: day(1), EndDate: day(7)})
	if !errors.Is(err, ErrNoMealsFound) {
		t.Errorf("Expected ErrNoMealsFound, got %v", err)
	}
}

func TestGenerateList_InvalidRange(t *testing.T) {
	db := setupTestDB(t)

	_, err := GenerateList(db, testUserID, GenerateInput{StartDate: day(7), EndDate: day(1)})
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Expected ErrInvalidRange, got %v", err)
	}
}

func TestGenerateList_OtherUsersMealsExcluded(t *testing.T) {
	db := setupTestDB(t)

	toast := seedRecipe(t, db, "Toast", map[string]*float64{"bread": floatPtr(100)})
	seedMeal(t, db, otherUserID, day(2), "breakfast", toast.ID)

	_, err := GenerateList(db, testUserID, GenerateInput{StartDate: day(1), EndDate: day(7)})
	if !errors.Is(err, ErrNoMealsFound) {
		t.Errorf("Expected ErrNoMealsFound for other user's meals, got %v", err)
	}
}
