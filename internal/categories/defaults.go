// Package categories maps shopping-list item categories to inventory
// defaults: where the item is stored and how long it keeps.
package categories

import (
	"time"

	"github.com/sdxshuai/Epicourier-Web-sub001/internal/models"
)

// Defaults are the storage location and shelf life derived from an item's
// category. A nil ShelfLifeDays means no computed expiration (shelf-stable).
type Defaults struct {
	Location      string
	ShelfLifeDays *int
}

func days(n int) *int { return &n }

// defaultsByCategory is immutable after init. Lookups never fail: unknown
// categories fall back to fallbackDefaults.
var defaultsByCategory = map[string]Defaults{
	"Produce":   {Location: models.LocationFridge, ShelfLifeDays: days(7)},
	"Dairy":     {Location: models.LocationFridge, ShelfLifeDays: days(7)},
	"Meat":      {Location: models.LocationFreezer, ShelfLifeDays: days(3)},
	"Seafood":   {Location: models.LocationFreezer, ShelfLifeDays: days(2)},
	"Frozen":    {Location: models.LocationFreezer, ShelfLifeDays: days(90)},
	"Bakery":    {Location: models.LocationPantry, ShelfLifeDays: days(5)},
	"Beverages": {Location: models.LocationFridge, ShelfLifeDays: days(30)},
	"Pantry":    {Location: models.LocationPantry},
	"Spices":    {Location: models.LocationPantry},
}

var fallbackDefaults = Defaults{Location: models.LocationPantry, ShelfLifeDays: days(14)}

// Lookup returns the defaults for a category. Never missing: unmapped
// categories (including "Other" and the empty string) get the fallback.
func Lookup(category string) Defaults {
	if d, ok := defaultsByCategory[category]; ok {
		return d
	}
	return fallbackDefaults
}

// ExpirationFrom computes the default expiration date for a category from a
// reference day, or nil when the category has no shelf-life window.
func ExpirationFrom(category string, from time.Time) *time.Time {
	d := Lookup(category)
	if d.ShelfLifeDays == nil {
		return nil
	}
	exp := from.AddDate(0, 0, *d.ShelfLifeDays)
	return &exp
}
