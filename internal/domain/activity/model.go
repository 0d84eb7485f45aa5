package activity

import "time"

// Type represents the kind of user intent recorded in the feed
type Type string

const (
	TypeMealAdded            Type = "meal_added"
	TypeMealRenamed          Type = "meal_renamed"
	TypeMealDuplicated       Type = "meal_duplicated"
	TypeMealEaten            Type = "meal_eaten"
	TypeIngredientAdded      Type = "ingredient_added"
	TypeIngredientEdited     Type = "ingredient_edited"
	TypeIngredientDuplicated Type = "ingredient_duplicated"
	TypeIngredientRemoved    Type = "ingredient_removed"
	TypeIngredientMoved      Type = "ingredient_moved"
	TypeDocumentLoaded       Type = "document_loaded"
)

// Entry represents an event in the activity feed. Entries are an audit trail
// and are never replayed.
type Entry struct {
	ID           int64     `json:"id"`
	Type         Type      `json:"type"`
	MealID       *string   `json:"meal_id,omitempty"`
	IngredientID *string   `json:"ingredient_id,omitempty"`
	Summary      string    `json:"summary"`
	Details      string    `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time `json:"created_at"`
}
