package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/sdxshuai/Epicourier-Web-sub001/internal/aggregate"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/models"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// ErrInvalidRange is returned when startDate is after endDate. Detected
// before any store access.
var ErrInvalidRange = errors.New("invalid date range")

// ErrNoMealsFound is returned when the date range holds no planned meals with
// a recipe. An expected empty-result case, distinct from a store failure.
var ErrNoMealsFound = errors.New("no meals found in range")

// GenerateInput is the generation request after boundary validation.
type GenerateInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
	MealTypes []string
}

// GenerateSummary is the response payload for a generated list.
type GenerateSummary struct {
	ListID       uint64 `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ItemCount    int    `json:"item_count"`
	MealsCount   int    `json:"meals_count"`
	RecipesCount int    `json:"recipes_count"`
}

// GenerateOutcome is the two-phase result of a generation: the list creation
// and the item insert are reported separately. ItemsErr non-nil means the
// list exists but its items could not be written; callers decide whether that
// counts as success (the HTTP handler treats it as success and logs).
type GenerateOutcome struct {
	List     *models.ShoppingList
	Summary  GenerateSummary
	ItemsErr error
}

// GenerateList builds a shopping list from the planned meals in an inclusive
// date range by aggregating recipe ingredients per meal occurrence.
func GenerateList(db *gorm.DB, userID string, input GenerateInput) (*GenerateOutcome, error) {
	if input.StartDate.After(input.EndDate) {
		return nil, ErrInvalidRange
	}

	// Planned meals with a recipe in range, oldest first so aggregation order
	// (and therefore item positions) is stable.
	query := db.Clauses(hints.New("MAX_EXECUTION_TIME(5000)")).
		Where("user_id = ? AND date >= ? AND date <= ? AND recipe_id IS NOT NULL",
			userID, input.StartDate, input.EndDate)
	if len(input.MealTypes) > 0 {
		query = query.Where("meal_type IN ?", input.MealTypes)
	}

	var meals []models.PlannedMeal
	if err := query.Order("date ASC, id ASC").Find(&meals).Error; err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, ErrNoMealsFound
	}

	// Distinct recipes referenced by the meals
	recipeIDs := make([]uint64, 0, len(meals))
	seen := make(map[uint64]bool, len(meals))
	for _, meal := range meals {
		if !seen[*meal.RecipeID] {
			seen[*meal.RecipeID] = true
			recipeIDs = append(recipeIDs, *meal.RecipeID)
		}
	}

	var recipes []models.Recipe
	if err := db.Where("id IN ?", recipeIDs).Find(&recipes).Error; err != nil {
		return nil, err
	}
	recipeNames := make(map[uint64]string, len(recipes))
	for _, r := range recipes {
		recipeNames[r.ID] = r.Name
	}

	var recipeIngredients []models.RecipeIngredient
	if err := db.Preload("Ingredient").
		Where("recipe_id IN ?", recipeIDs).
		Order("recipe_id ASC, id ASC").
		Find(&recipeIngredients).Error; err != nil {
		return nil, err
	}

	ingredientsByRecipe := make(map[uint64][]models.RecipeIngredient, len(recipeIDs))
	for _, ri := range recipeIngredients {
		if ri.Ingredient == nil {
			// Dangling ingredient reference: skip the tuple, keep the batch
			log.Printf("generate: skipping recipe %d ingredient %d: ingredient record missing",
				ri.RecipeID, ri.IngredientID)
			continue
		}
		ingredientsByRecipe[ri.RecipeID] = append(ingredientsByRecipe[ri.RecipeID], ri)
	}

	// One row per meal occurrence: a recipe planned twice contributes its
	// ingredients twice.
	var rows []aggregate.Row
	for _, meal := range meals {
		for _, ri := range ingredientsByRecipe[*meal.RecipeID] {
			rows = append(rows, aggregate.Row{
				RecipeID:        ri.RecipeID,
				IngredientID:    ri.IngredientID,
				Name:            ri.Ingredient.Name,
				Unit:            ri.Ingredient.Unit,
				RelativePercent: ri.RelativeQuantityPercent,
			})
		}
	}
	aggregated := aggregate.Ingredients(rows)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = defaultListName(input.StartDate, input.EndDate)
	}
	description := describeSourceMeals(meals, recipeIDs, recipeNames)

	list, err := CreateList(db, userID, name, description)
	if err != nil {
		return nil, err
	}

	outcome := &GenerateOutcome{List: list}

	items := make([]models.ShoppingListItem, 0, len(aggregated))
	for position, agg := range aggregated {
		ingredientID := agg.IngredientID
		items = append(items, models.ShoppingListItem{
			ListID:       list.ID,
			IngredientID: &ingredientID,
			ItemName:     agg.Name,
			Quantity:     round2(agg.TotalQuantity),
			Unit:         agg.Unit,
			Category:     "Other",
			Position:     position,
		})
	}

	itemCount := len(items)
	if itemCount > 0 {
		if err := db.Create(&items).Error; err != nil {
			// Best effort: the list stays, the failure is reported alongside it
			log.Printf("generate: list %d created but item insert failed: %v", list.ID, err)
			outcome.ItemsErr = err
			itemCount = 0
		}
	}

	outcome.Summary = GenerateSummary{
		ListID:       list.ID,
		Name:         list.Name,
		Description:  list.Description,
		ItemCount:    itemCount,
		MealsCount:   len(meals),
		RecipesCount: len(recipeIDs),
	}
	return outcome, nil
}

// defaultListName synthesizes a name from the date range.
func defaultListName(start, end time.Time) string {
	if start.Year() == end.Year() {
		return fmt.Sprintf("Shopping List %s - %s", start.Format("Jan 2"), end.Format("Jan 2, 2006"))
	}
	return fmt.Sprintf("Shopping List %s - %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
}

// describeSourceMeals summarizes where the list came from, truncating the
// recipe name list at three.
func describeSourceMeals(meals []models.PlannedMeal, recipeIDs []uint64, recipeNames map[uint64]string) string {
	names := make([]string, 0, 3)
	for _, id := range recipeIDs {
		if name := recipeNames[id]; name != "" {
			names = append(names, name)
		}
		if len(names) == 3 {
			break
		}
	}

	desc := fmt.Sprintf("Generated from %d planned meals (%d recipes)", len(meals), len(recipeIDs))
	if len(names) > 0 {
		desc += ": " + strings.Join(names, ", ")
		if len(recipeIDs) > 3 {
			desc += fmt.Sprintf(" and %d more", len(recipeIDs)-3)
		}
	}
	return desc
}

// round2 rounds at the point of persistence only, so accumulation upstream
// does not compound rounding error.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
