package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/handlers"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/models"
	"github.com/sdxshuai/Epicourier-Web-sub001/tests/helpers"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testUserID = "11111111-1111-1111-1111-111111111111"

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Recipe{},
		&models.Ingredient{},
		&models.RecipeIngredient{},
		&models.PlannedMeal{},
		&models.ShoppingList{},
		&models.ShoppingListItem{},
		&models.InventoryItem{},
		&models.ListTransfer{},
		&models.SharedList{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// setupApp wires the shopping list routes behind a mock auth middleware
func setupApp(db *gorm.DB, userID string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals("userID", userID)
		}
		return c.Next()
	})

	listHandler := &handlers.ShoppingListHandler{DB: db}
	itemHandler := &handlers.ShoppingItemHandler{DB: db}
	inventoryHandler := &handlers.InventoryHandler{DB: db}
	shareHandler := &handlers.ShareHandler{DB: db}

	app.Get("/api/shopping-lists/share", shareHandler.ResolveSharedList)
	app.Post("/api/shopping-lists/generate", listHandler.GenerateShoppingList)
	app.Post("/api/shopping-lists/share", shareHandler.ShareShoppingList)
	app.Get("/api/shopping-lists", listHandler.GetShoppingLists)
	app.Post("/api/shopping-lists", listHandler.CreateShoppingList)
	app.Get("/api/shopping-lists/:id", listHandler.GetShoppingList)
	app.Put("/api/shopping-lists/:id", listHandler.UpdateShoppingList)
	app.Delete("/api/shopping-lists/:id", listHandler.DeleteShoppingList)
	app.Post("/api/shopping-lists/:id/transfer", listHandler.TransferCheckedItems)
	app.Post("/api/shopping-lists/:id/transfer/undo", listHandler.UndoTransfer)
	app.Post("/api/shopping-lists/:id/items", itemHandler.AddShoppingItem)
	app.Put("/api/shopping-lists/:id/items/:itemId", itemHandler.UpdateShoppingItem)
	app.Delete("/api/shopping-lists/:id/items/:itemId", itemHandler.DeleteShoppingItem)
	app.Get("/api/inventory", inventoryHandler.GetInventory)
	app.Post("/api/inventory", inventoryHandler.CreateInventoryItem)
	app.Put("/api/inventory/:id", inventoryHandler.UpdateInventoryItem)
	app.Delete("/api/inventory/:id", inventoryHandler.DeleteInventoryItem)

	return app
}

// doJSON executes a request against the app and decodes a JSON object body.
// Non-object bodies leave the result map nil.
func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}

	var result map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&result)
	return resp.StatusCode, result
}

func TestCreateAndGetShoppingList(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(db, testUserID)

	status, created := doJSON(t, app, "POST", "/api/shopping-lists", map[string]interface{}{
		"name":        "Groceries",
		"description": "weekly run",
	})
	if status != 201 {
		t.Fatalf("Expected status 201, got %d", status)
	}
	id := uint64(created["id"].(float64))

	req := httptest.NewRequest("GET", "/api/shopping-lists", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	var lists []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&lists); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(lists) != 1 || lists[0]["name"] != "Groceries" {
		t.Errorf("Unexpected list collection: %v", lists)
	}

	status, got := doJSON(t, app, "GET", "/api/shopping-lists/"+itoa(id), nil)
	if status != 200 {
		t.Errorf("Expected status 200, got %d", status)
	}
	if got["description"] != "weekly run" {
		t.Errorf("Unexpected list payload: %v", got)
	}
}

func TestCreateShoppingList_EmptyName(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(db, testUserID)

	status, _ := doJSON(t, app, "POST", "/api/shopping-lists", map[string]interface{}{
		"name": "   ",
	})
	if status != 400 {
		t.Errorf("Expected status 400, got %d", status)
	}
}

func TestShoppingLists_Unauthenticated(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(db, "")

	status, _ := doJSON(t, app, "GET", "/api/shopping-lists", nil)
	if status != 401 {
		t.Errorf("Expected status 401, got %d", status)
	}
}

func TestGetShoppingList_NotFound(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(db, testUserID)

	status, _ := doJSON(t, app, "GET", "/api/shopping-lists/9999", nil)
	if status != 404 {
		t.Errorf("Expected status 404, got %d", status)
	}

	status, _ = doJSON(t, app, "GET", "/api/shopping-lists/not-a-number", nil)
	if status != 404 {
		t.Errorf("Expected status 404 for malformed id, got %d", status)
	}
}

func TestDeleteShoppingList_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(db, testUserID)

	list := helpers.CreateTestList(t, db, testUserID, "gone soon", nil)

	status, result := doJSON(t, app, "DELETE", "/api/shopping-lists/"+itoa(list.ID), nil)
	if status != 200 {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if result["success"] != true {
		t.Errorf("Expected success=true, got %v", result)
	}

	// Deleting again still reports success
	status, _ = doJSON(t, app, "DELETE", "/api/shopping-lists/"+itoa(list.ID), nil)
	if status != 200 {
		t.Errorf("Expected status 200 on repeat delete, got %d", status)
	}
}

func TestGenerateShoppingList(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(db, testUserID)

	recipe := helpers.CreateTestRecipe(t, db, "Pancakes", []helpers.IngredientSpec{
		{Name: "flour", Unit: "cups", Category: "Baking"},
		{Name: "milk", Unit: "cups", Category: "Dairy"},
	})
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	helpers.CreateTestPlannedMeal(t, db, testUserID, date, "breakfast", &recipe.ID)

	status, result := doJSON(t, app, "POST", "/api/shopping-lists/generate", map[string]interface{}{
		"startDate": "2026-03-01",
		"endDate":   "2026-03-07",
	})
	if status != 200 {
		t.Fatalf("Expected status 200, got %d: %v", status, result)
	}
	if result["item_count"] != float64(2) {
		t.Errorf("Expected item_count 2, got %v", result["item_count"])
	}
	if result["meals_count"] != float64(1) {
		t.Errorf("Expected meals_count 1, got %v", result["meals_count"])
	}
}

func TestGenerateShoppingList_Validation(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(db, testUserID)

	status, _ := doJSON(t, app, "POST", "/api/shopping-lists/generate", map[string]interface{}{
		"startDate": "2026-03-01",
	})
	if status != 400 {
		t.Errorf("Expected status 400 for missing endDate, got %d", status)
	}

	status, _ = doJSON(t, app, "POST", "/api/shopping-lists/generate", map[string]interface{}{
		"startDate": "03/01/2026",
		"endDate":   "2026-03-07",
	})
	if status != 400 {
		t.Errorf("Expected status 400 for malformed date, got %d", status)
	}

	status, _ = doJSON(t, app, "POST", "/api/shopping-lists/generate", map[string]interface{}{
		"startDate": "2026-03-07",
		"endDate":   "2026-03-01",
	})
	if status != 400 {
		t.Errorf("Expected status 400 for inverted range, got %d", status)
	}

	// An empty calendar is a 404, not a 400
	status, _ = doJSON(t, app, "POST", "/api/shopping-lists/generate", map[string]interface{}{
		"startDate": "2026-03-01",
		"endDate":   "2026-03-07",
	})
	if status != 404 {
		t.Errorf("Expected status 404 for no meals, got %d", status)
	}
}

func TestAddAndUpdateShoppingItem(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(db, testUserID)

	list := helpers.CreateTestList(t, db, testUserID, "market", nil)

	status, item := doJSON(t, app, "POST", "/api/shopping-lists/"+itoa(list.ID)+"/items", map[string]interface{}{
		"item_name": "apples",
		"quantity":  "3",
	})
	if status != 201 {
		t.Fatalf("Expected status 201, got %d: %v", status, item)
	}
	if item["quantity"] != float64(3) {
		t.Errorf("Expected quantity 3 from numeric string, got %v", item["quantity"])
	}
	if item["category"] != "Other" {
		t.Errorf("Expected category Other, got %v", item["category"])
	}
	itemID := uint64(item["id"].(float64))

	status, updated := doJSON(t, app, "PUT", "/api/shopping-lists/"+itoa(list.ID)+"/items/"+itoa(itemID), map[string]interface{}{
		"is_checked": true,
	})
	if status != 200 {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if updated["is_checked"] != true {
		t.Errorf("Expected checked item, got %v", updated)
	}
}

func TestAddShoppingItem_InvalidQuantity(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(db, testUserID)

	list := helpers.CreateTestList(t, db, testUserID, "market", nil)

	status, _ := doJSON(t, app, "POST", "/api/shopping-lists/"+itoa(list.ID)+"/items", map[string]interface{}{
		"item_name": "apples",
		"quantity":  "a few",
	})
	if status != 400 {
		t.Errorf("Expected status 400 for non-numeric quantity, got %d", status)
	}
}

func TestTransferAndUndo(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(db, testUserID)

	list := helpers.CreateTestList(t, db, testUserID, "done shopping", []models.ShoppingListItem{
		{ItemName: "chicken", Quantity: 1, Category: "Meat", IsChecked: true},
		{ItemName: "napkins", Quantity: 1, Category: "Other", IsChecked: false},
	})

	status, result := doJSON(t, app, "POST", "/api/shopping-lists/"+itoa(list.ID)+"/transfer", nil)
	if status != 200 {
		t.Fatalf("Expected status 200, got %d: %v", status, result)
	}
	if result["transferred_count"] != float64(1) {
		t.Errorf("Expected transferred_count 1, got %v", result["transferred_count"])
	}

	status, result = doJSON(t, app, "POST", "/api/shopping-lists/"+itoa(list.ID)+"/transfer/undo", nil)
	if status != 200 {
		t.Fatalf("Expected status 200, got %d: %v", status, result)
	}
	if result["removed_count"] != float64(1) || result["restored_count"] != float64(1) {
		t.Errorf("Unexpected undo counts: %v", result)
	}

	// Nothing left to undo
	status, _ = doJSON(t, app, "POST", "/api/shopping-lists/"+itoa(list.ID)+"/transfer/undo", nil)
	if status != 404 {
		t.Errorf("Expected status 404 on second undo, got %d", status)
	}
}

func TestTransfer_NothingChecked(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(db, testUserID)

	list := helpers.CreateTestList(t, db, testUserID, "fresh list", []models.ShoppingListItem{
		{ItemName: "bread", Quantity: 1, Category: "Bakery", IsChecked: false},
	})

	status, _ := doJSON(t, app, "POST", "/api/shopping-lists/"+itoa(list.ID)+"/transfer", nil)
	if status != 404 {
		t.Errorf("Expected status 404, got %d", status)
	}
}

func TestInventoryCRUD(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(db, testUserID)

	status, item := doJSON(t, app, "POST", "/api/inventory", map[string]interface{}{
		"item_name":       "olive oil",
		"quantity":        2,
		"unit":            "bottles",
		"expiration_date": "2026-12-01",
	})
	if status != 201 {
		t.Fatalf("Expected status 201, got %d: %v", status, item)
	}
	if item["location"] != "pantry" {
		t.Errorf("Expected default location pantry, got %v", item["location"])
	}
	itemID := uint64(item["id"].(float64))

	status, updated := doJSON(t, app, "PUT", "/api/inventory/"+itoa(itemID), map[string]interface{}{
		"quantity": "1.5",
	})
	if status != 200 {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if updated["quantity"] != float64(1.5) {
		t.Errorf("Expected quantity 1.5, got %v", updated["quantity"])
	}

	status, _ = doJSON(t, app, "DELETE", "/api/inventory/"+itoa(itemID), nil)
	if status != 200 {
		t.Errorf("Expected status 200, got %d", status)
	}
	status, _ = doJSON(t, app, "DELETE", "/api/inventory/"+itoa(itemID), nil)
	if status != 404 {
		t.Errorf("Expected status 404 on repeat delete, got %d", status)
	}
}

func TestInventoryInvalidLocation(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(db, testUserID)

	status, result := doJSON(t, app, "POST", "/api/inventory", map[string]interface{}{
		"item_name": "leftovers",
		"location":  "garage",
	})
	if status != 400 {
		t.Fatalf("Expected status 400 for unknown location, got %d: %v", status, result)
	}

	status, item := doJSON(t, app, "POST", "/api/inventory", map[string]interface{}{
		"item_name": "leftovers",
		"location":  "fridge",
	})
	if status != 201 {
		t.Fatalf("Expected status 201, got %d: %v", status, item)
	}
	itemID := uint64(item["id"].(float64))

	status, _ = doJSON(t, app, "PUT", "/api/inventory/"+itoa(itemID), map[string]interface{}{
		"location": "garage",
	})
	if status != 400 {
		t.Errorf("Expected status 400 for unknown location on update, got %d", status)
	}

	status, updated := doJSON(t, app, "PUT", "/api/inventory/"+itoa(itemID), map[string]interface{}{
		"location": "freezer",
	})
	if status != 200 {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if updated["location"] != "freezer" {
		t.Errorf("Expected location freezer, got %v", updated["location"])
	}
}

func TestShareAndResolve(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(db, testUserID)

	list := helpers.CreateTestList(t, db, testUserID, "potluck", []models.ShoppingListItem{
		{ItemName: "chips", Quantity: 2, Category: "Other"},
	})

	status, share := doJSON(t, app, "POST", "/api/shopping-lists/share", map[string]interface{}{
		"shoppingListId": list.ID,
		"expiryDays":     3,
	})
	if status != 200 {
		t.Fatalf("Expected status 200, got %d: %v", status, share)
	}
	token, _ := share["token"].(string)
	if token == "" {
		t.Fatalf("Expected a token in response: %v", share)
	}

	// Resolution works without a user in context
	public := setupApp(db, "")
	status, view := doJSON(t, public, "GET", "/api/shopping-lists/share?token="+token, nil)
	if status != 200 {
		t.Fatalf("Expected status 200, got %d: %v", status, view)
	}
	listPayload, _ := view["list"].(map[string]interface{})
	if listPayload == nil || listPayload["name"] != "potluck" {
		t.Errorf("Unexpected shared list payload: %v", view)
	}

	status, _ = doJSON(t, public, "GET", "/api/shopping-lists/share?token=bogus", nil)
	if status != 404 {
		t.Errorf("Expected status 404 for unknown token, got %d", status)
	}

	status, _ = doJSON(t, public, "GET", "/api/shopping-lists/share", nil)
	if status != 400 {
		t.Errorf("Expected status 400 for missing token, got %d", status)
	}
}

func TestShareShoppingList_MissingID(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(db, testUserID)

	status, _ := doJSON(t, app, "POST", "/api/shopping-lists/share", map[string]interface{}{
		"expiryDays": 3,
	})
	if status != 400 {
		t.Errorf("Expected status 400, got %d", status)
	}
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}
