package mcp

import "github.com/rpggio/pantry/internal/domain/activity"

// UnsortedID addresses the unsorted bucket in tool arguments.
const UnsortedID = "unsorted"

type EmptyParams struct{}

type MealParams struct {
	MealID string `json:"meal_id" jsonschema:"meal id, or \"unsorted\" for the unsorted bucket"`
}

type AddMealParams struct {
	Name string `json:"name" jsonschema:"meal title"`
}

type RenameMealParams struct {
	MealID string `json:"meal_id" jsonschema:"meal id"`
	Name   string `json:"name" jsonschema:"new meal title"`
}

type AddIngredientParams struct {
	MealID     string `json:"meal_id,omitempty" jsonschema:"target meal id; defaults to the unsorted bucket"`
	Name       string `json:"name" jsonschema:"ingredient name"`
	BestBefore string `json:"best_before,omitempty" jsonschema:"best-before date as YYYY-MM-DD; omit for undated"`
}

type EditIngredientParams struct {
	IngredientID    string  `json:"ingredient_id" jsonschema:"ingredient id"`
	Name            *string `json:"name,omitempty" jsonschema:"new name"`
	BestBefore      *string `json:"best_before,omitempty" jsonschema:"new best-before date as YYYY-MM-DD"`
	ClearBestBefore bool    `json:"clear_best_before,omitempty" jsonschema:"make the ingredient undated"`
	Frozen          *bool   `json:"frozen,omitempty" jsonschema:"mark the ingredient frozen or unfrozen"`
}

type IngredientParams struct {
	IngredientID string `json:"ingredient_id" jsonschema:"ingredient id"`
}

type MoveIngredientParams struct {
	IngredientID string `json:"ingredient_id" jsonschema:"ingredient id"`
	ToMealID     string `json:"to_meal_id" jsonschema:"target meal id, or \"unsorted\""`
}

type ImportDocumentParams struct {
	Document string `json:"document" jsonschema:"exchange-format JSON document"`
}

type GetRecentActivityParams struct {
	MealID string `json:"meal_id,omitempty" jsonschema:"only activity for this meal"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of entries"`
	Offset int    `json:"offset,omitempty" jsonschema:"offset for pagination"`
}

type IngredientResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	BestBefore *string `json:"best_before,omitempty"`
	Frozen     bool    `json:"frozen"`
}

type MealSummary struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	EatBy *string `json:"eat_by,omitempty"`
	Count string  `json:"count"`
}

type MealResponse struct {
	MealSummary
	Unsorted     bool                 `json:"unsorted"`
	Section      int                  `json:"section"`
	SectionTitle string               `json:"section_title"`
	Position     int                  `json:"position"`
	Ingredients  []IngredientResponse `json:"ingredients"`
}

type SectionResponse struct {
	Index int           `json:"index"`
	Title string        `json:"title"`
	EatBy *string       `json:"eat_by,omitempty"`
	Meals []MealSummary `json:"meals"`
}

type ListSectionsResponse struct {
	Unsorted           MealSummary       `json:"unsorted"`
	Sections           []SectionResponse `json:"sections"`
	CanMoveIngredients bool              `json:"can_move_ingredients"`
}

// ChangeResponse reports where a meal sits after a mutation.
type ChangeResponse struct {
	MealID       string `json:"meal_id"`
	Title        string `json:"title"`
	Unsorted     bool   `json:"unsorted"`
	Section      int    `json:"section"`
	SectionTitle string `json:"section_title"`
	Position     int    `json:"position"`
	Count        string `json:"count"`
}

type IngredientChangeResponse struct {
	Ingredient IngredientResponse `json:"ingredient"`
	Meal       ChangeResponse     `json:"meal"`
}

type MoveIngredientResponse struct {
	Ingredient IngredientResponse `json:"ingredient"`
	From       ChangeResponse     `json:"from"`
	To         ChangeResponse     `json:"to"`
}

type EatMealResponse struct {
	MealID string `json:"meal_id"`
	Eaten  bool   `json:"eaten"`
}

type ExportDocumentResponse struct {
	Document string `json:"document"`
}

type ImportDocumentResponse struct {
	Meals    int `json:"meals"`
	Unsorted int `json:"unsorted"`
}

type ActivityResponse struct {
	Entries []activity.Entry `json:"entries"`
}
