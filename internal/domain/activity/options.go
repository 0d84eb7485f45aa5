package activity

// ListOptions provides filtering options for listing activity.
type ListOptions struct {
	MealID       *string
	IngredientID *string
	Type         *Type
	Limit        int
	Offset       int
}
