// Package aggregate collapses per-recipe ingredient quantities into one
// running total per distinct ingredient. It is a pure in-memory fold; the
// generation orchestrator feeds it rows and persists the result.
package aggregate

// Row is one (recipe, ingredient, relative quantity) tuple. RelativePercent
// scales one standard serving: 100 means one full serving's worth, nil is
// treated as 100.
type Row struct {
	RecipeID        uint64
	IngredientID    uint64
	Name            string
	Unit            string
	RelativePercent *float64
}

// Ingredient is the aggregated total for one distinct ingredient.
type Ingredient struct {
	IngredientID            uint64
	Name                    string
	Unit                    string
	TotalQuantity           float64
	ContributingRecipeCount int
}

// Ingredients sums relative quantities per distinct ingredient id. The result
// preserves first-seen input order, which drives item positions downstream.
// Totals are kept unrounded here; rounding happens once at persistence so
// accumulation does not compound rounding error. An empty input yields an
// empty result, not an error.
func Ingredients(rows []Row) []Ingredient {
	byID := make(map[uint64]*Ingredient, len(rows))
	order := make([]uint64, 0, len(rows))

	for _, row := range rows {
		quantity := 1.0
		if row.RelativePercent != nil {
			quantity = *row.RelativePercent / 100
		}

		agg, seen := byID[row.IngredientID]
		if !seen {
			agg = &Ingredient{
				IngredientID: row.IngredientID,
				Name:         row.Name,
				Unit:         row.Unit,
			}
			byID[row.IngredientID] = agg
			order = append(order, row.IngredientID)
		}

		agg.TotalQuantity += quantity
		agg.ContributingRecipeCount++
	}

	out := make([]Ingredient, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out
}
