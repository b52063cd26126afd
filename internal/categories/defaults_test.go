package categories

import (
	"testing"
	"time"

	"github.com/sdxshuai/Epicourier-Web-sub001/internal/models"
)

func TestLookup_MappedCategories(t *testing.T) {
	cases := []struct {
		category string
		location string
		days     int
	}{
		{"Produce", models.LocationFridge, 7},
		{"Dairy", models.LocationFridge, 7},
		{"Meat", models.LocationFreezer, 3},
		{"Seafood", models.LocationFreezer, 2},
		{"Frozen", models.LocationFreezer, 90},
		{"Bakery", models.LocationPantry, 5},
		{"Beverages", models.LocationFridge, 30},
	}

	for _, c := range cases {
		d := Lookup(c.category)
		if d.Location != c.location {
			t.Errorf("%s: expected location %s, got %s", c.category, c.location, d.Location)
		}
		if d.ShelfLifeDays == nil || *d.ShelfLifeDays != c.days {
			t.Errorf("%s: expected %d shelf-life days, got %v", c.category, c.days, d.ShelfLifeDays)
		}
	}
}

func TestLookup_ShelfStable(t *testing.T) {
	for _, category := range []string{"Pantry", "Spices"} {
		d := Lookup(category)
		if d.Location != models.LocationPantry {
			t.Errorf("%s: expected pantry, got %s", category, d.Location)
		}
		if d.ShelfLifeDays != nil {
			t.Errorf("%s: expected no shelf life, got %d", category, *d.ShelfLifeDays)
		}
	}
}

func TestLookup_Fallback(t *testing.T) {
	for _, category := range []string{"Other", "", "Unmapped"} {
		d := Lookup(category)
		if d.Location != models.LocationPantry {
			t.Errorf("%q: expected pantry fallback, got %s", category, d.Location)
		}
		if d.ShelfLifeDays == nil || *d.ShelfLifeDays != 14 {
			t.Errorf("%q: expected 14 day fallback, got %v", category, d.ShelfLifeDays)
		}
	}
}

func TestExpirationFrom(t *testing.T) {
	from := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	exp := ExpirationFrom("Meat", from)
	if exp == nil {
		t.Fatal("Expected expiration for Meat")
	}
	want := time.Date(2026, 1, 13, 0, 0, 0, 0, time.UTC)
	if !exp.Equal(want) {
		t.Errorf("Expected %v, got %v", want, exp)
	}

	if ExpirationFrom("Spices", from) != nil {
		t.Error("Expected no expiration for Spices")
	}
}
