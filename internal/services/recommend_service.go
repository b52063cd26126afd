package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/config"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/models"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

// ErrRecommenderUnavailable is returned when no Gemini API key is configured.
var ErrRecommenderUnavailable = errors.New("recommender is not configured")

// recipePromptLimit caps how many recipes go into the model context.
const recipePromptLimit = 80

// LLMClient is an interface for a client that can interact with a large
// language model. Tests substitute a canned implementation.
type LLMClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Close() error
}

// geminiClient is a client for the Google Gemini API.
type geminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiClient creates a new Gemini API client, or (nil, nil) when no API
// key is configured so the recommendations endpoint can report itself
// unavailable instead of failing at startup.
func NewGeminiClient(ctx context.Context, cfg *config.Config) (LLMClient, error) {
	if cfg.GeminiAPIKey == "" {
		log.Printf("GEMINI_API_KEY not set, recommendations endpoint disabled")
		return nil, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-2.5-flash")
	return &geminiClient{client: client, model: model}, nil
}

// GenerateContent sends a prompt to the Gemini model and returns the generated text.
func (c *geminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("generated content is not text")
	}

	return string(text), nil
}

// Close closes the underlying Gemini client.
func (c *geminiClient) Close() error {
	return c.client.Close()
}

// RecommendInventoryItem is one available item, with an optional ISO
// expiration date (YYYY-MM-DD).
type RecommendInventoryItem struct {
	IngredientID   uint64  `json:"ingredient_id"`
	Name           string  `json:"name"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit"`
	ExpirationDate string  `json:"expiration_date"`
}

// RecommendInput is the recommendation request after boundary validation.
type RecommendInput struct {
	Inventory   []RecommendInventoryItem
	Preferences string
	NumRecipes  int
}

// RecommendedRecipe is a single recipe recommendation from the model.
type RecommendedRecipe struct {
	RecipeID                uint64   `json:"recipe_id"`
	RecipeName              string   `json:"recipe_name"`
	MatchScore              int      `json:"match_score"`
	IngredientsAvailable    []string `json:"ingredients_available"`
	IngredientsMissing      []string `json:"ingredients_missing"`
	ExpiringIngredientsUsed []string `json:"expiring_ingredients_used"`
	Reason                  string   `json:"reason"`
}

// RecommendResponse is the model's structured answer.
type RecommendResponse struct {
	Recommendations     []RecommendedRecipe `json:"recommendations"`
	ShoppingSuggestions []string            `json:"shopping_suggestions"`
	OverallReasoning    string              `json:"overall_reasoning"`
}

// RecommendFromInventory asks the model for recipes that use what the user
// has, prioritizing soon-to-expire items.
func RecommendFromInventory(ctx context.Context, db *gorm.DB, client LLMClient, input RecommendInput) (*RecommendResponse, error) {
	if client == nil {
		return nil, ErrRecommenderUnavailable
	}

	recipesText, err := formatRecipesForPrompt(db, recipePromptLimit)
	if err != nil {
		return nil, err
	}

	prompt := buildRecommendationPrompt(
		formatInventoryWithExpiration(input.Inventory, time.Now().UTC()),
		recipesText,
		input.Preferences,
		input.NumRecipes,
	)

	raw, err := client.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var response RecommendResponse
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &response); err != nil {
		return nil, fmt.Errorf("failed to parse model response as JSON: %w", err)
	}
	return &response, nil
}

// formatInventoryWithExpiration renders inventory lines with urgency labels
// the prompt's priority rules key off: EXPIRING SOON within 3 days, USE SOON
// within 7.
func formatInventoryWithExpiration(inventory []RecommendInventoryItem, now time.Time) string {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	lines := make([]string, 0, len(inventory))

	for _, item := range inventory {
		unit := item.Unit
		if unit == "" {
			unit = "units"
		}
		line := fmt.Sprintf("- %s: %g %s", item.Name, item.Quantity, unit)

		if item.ExpirationDate != "" {
			if exp, err := time.ParseInLocation("2006-01-02", item.ExpirationDate, time.UTC); err == nil {
				daysUntil := int(exp.Sub(today).Hours() / 24)
				switch {
				case daysUntil < 0:
					line += fmt.Sprintf(" (EXPIRED %d days ago)", -daysUntil)
				case daysUntil == 0:
					line += " (expires TODAY) EXPIRING NOW"
				case daysUntil <= 3:
					line += fmt.Sprintf(" (expires in %d days) EXPIRING SOON", daysUntil)
				case daysUntil <= 7:
					line += fmt.Sprintf(" (expires in %d days) USE SOON", daysUntil)
				default:
					line += fmt.Sprintf(" (expires: %s)", item.ExpirationDate)
				}
			}
			// Unparseable dates just omit expiration info
		}

		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// formatRecipesForPrompt renders "ID:n | name | Ingredients: ..." lines,
// listing at most ten ingredients per recipe to bound context size.
func formatRecipesForPrompt(db *gorm.DB, limit int) (string, error) {
	var recipes []models.Recipe
	if err := db.Order("id ASC").Limit(limit).Find(&recipes).Error; err != nil {
		return "", err
	}
	if len(recipes) == 0 {
		return "", nil
	}

	recipeIDs := make([]uint64, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
	}

	var mappings []models.RecipeIngredient
	if err := db.Preload("Ingredient").
		Where("recipe_id IN ?", recipeIDs).
		Order("recipe_id ASC, id ASC").
		Find(&mappings).Error; err != nil {
		return "", err
	}

	namesByRecipe := make(map[uint64][]string, len(recipes))
	for _, m := range mappings {
		if m.Ingredient == nil {
			continue
		}
		namesByRecipe[m.RecipeID] = append(namesByRecipe[m.RecipeID], m.Ingredient.Name)
	}

	lines := make([]string, 0, len(recipes))
	for _, r := range recipes {
		names := namesByRecipe[r.ID]
		shown := names
		if len(shown) > 10 {
			shown = shown[:10]
		}
		ingredients := strings.Join(shown, ", ")
		if len(names) > 10 {
			ingredients += fmt.Sprintf(" (+%d more)", len(names)-10)
		}
		lines = append(lines, fmt.Sprintf("ID:%d | %s | Ingredients: %s", r.ID, r.Name, ingredients))
	}

	return strings.Join(lines, "\n"), nil
}

// buildRecommendationPrompt builds the strict-JSON recommendation prompt.
func buildRecommendationPrompt(inventoryText, recipesText, preferences string, numRecipes int) string {
	if preferences == "" {
		preferences = "None specified"
	}

	return fmt.Sprintf(`You are a smart meal planning assistant for Epicourier.
Based on the user's available ingredients, recommend exactly %d recipes.

## User's Inventory:
%s

## Available Recipes Database:
%s

## User Preferences:
%s

## Priority Rules:
1. CRITICAL: Always prioritize recipes using EXPIRING SOON or USE SOON items
2. HIGH: Maximize ingredient utilization (use as many available items as possible)
3. MEDIUM: Consider nutritional balance across recommendations
4. LOW: Ensure meal variety (different cuisines/meal types)
5. NEVER: Do not recommend recipes that ONLY use EXPIRED items

## Scoring Guidelines:
- Recipe using 2+ expiring items: match_score bonus +15
- Recipe using 1 expiring item: match_score bonus +10
- Base score = (available ingredients / total required) * 100

## Output Format (strict JSON):
{
  "recommendations": [
    {
      "recipe_id": <integer from database>,
      "recipe_name": "<exact name from database>",
      "match_score": <0-100 integer>,
      "ingredients_available": ["ingredient1", "ingredient2"],
      "ingredients_missing": ["ingredient3"],
      "expiring_ingredients_used": ["expiring_item1"],
      "reason": "<1-2 sentence explanation>"
    }
  ],
  "shopping_suggestions": ["ingredient that would unlock more recipes"],
  "overall_reasoning": "<2-3 sentence summary of the meal plan>"
}

Respond ONLY with valid JSON. No markdown, no explanation outside JSON.`,
		numRecipes, inventoryText, recipesText, preferences)
}

// stripCodeFences removes a leading ```json / ``` fence pair if the model
// wrapped its answer in one despite the instructions.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
