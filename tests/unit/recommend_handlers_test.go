// recommend_handlers_test.go
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

package handlers_test

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/handlers"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/services"
)

type cannedLLM struct {
	response string
}

func (c *cannedLLM) GenerateContent(context.Context, string) (string, error) {
	return c.response, nil
}

func (c *cannedLLM) Close() error { return nil }

// setupRecommendApp wires the recommendation route behind a mock auth middleware
func setupRecommendApp(t *testing.T, client services.LLMClient) *fiber.App {
	t.Helper()

	db := setupTestDB(t)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", testUserID)
		return c.Next()
	})

	handler := &handlers.RecommendHandler{DB: db, Client: client}
	app.Post("/api/recommendations/inventory", handler.RecommendFromInventory)
	return app
}

func TestRecommendFromInventory(t *testing.T) {
	client := &cannedLLM{response: `{
		"recommendations": [{
			"recipe_id": 1,
			"recipe_name": "Fried Rice",
			"match_score": 90,
			"ingredients_available": ["rice", "eggs"],
			"ingredients_missing": [],
			"expiring_ingredients_used": ["eggs"],
			"reason": "Uses everything before it expires."
		}],
		"shopping_suggestions": [],
		"overall_reasoning": "Quick use of what you have."
	}`}
	app := setupRecommendApp(t, client)

	status, result := doJSON(t, app, "POST", "/api/recommendations/inventory", map[string]interface{}{
		"inventory": []map[string]interface{}{
			{"name": "rice", "quantity": 2, "unit": "kg"},
			{"name": "eggs", "quantity": 6, "expiration_date": "2026-09-02"},
		},
	})
	if status != 200 {
		t.Fatalf("Expected status 200, got %d: %v", status, result)
	}
	recs, _ := result["recommendations"].([]interface{})
	if len(recs) != 1 {
		t.Fatalf("Expected 1 recommendation, got %v", result)
	}
}

func TestRecommendFromInventory_EmptyInventory(t *testing.T) {
	app := setupRecommendApp(t, &cannedLLM{response: "{}"})

	status, _ := doJSON(t, app, "POST", "/api/recommendations/inventory", map[string]interface{}{
		"inventory": []map[string]interface{}{},
	})
	if status != 400 {
		t.Errorf("Expected status 400, got %d", status)
	}
}

func TestRecommendFromInventory_NumRecipesBounds(t *testing.T) {
	app := setupRecommendApp(t, &cannedLLM{response: "{}"})

	for _, n := range []int{0, 11, -3} {
		status, _ := doJSON(t, app, "POST", "/api/recommendations/inventory", map[string]interface{}{
			"inventory":  []map[string]interface{}{{"name": "rice", "quantity": 1}},
			"numRecipes": n,
		})
		if status != 400 {
			t.Errorf("numRecipes %d: expected status 400, got %d", n, status)
		}
	}
}

func TestRecommendFromInventory_NoClient(t *testing.T) {
	app := setupRecommendApp(t, nil)

	status, _ := doJSON(t, app, "POST", "/api/recommendations/inventory", map[string]interface{}{
		"inventory": []map[string]interface{}{{"name": "rice", "quantity": 1}},
	})
	if status != 503 {
		t.Errorf("Expected status 503, got %d", status)
	}
}
