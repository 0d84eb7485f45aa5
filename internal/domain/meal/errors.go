package meal

import "errors"

var (
	// ErrIngredientNotFound indicates the ingredient is not in the meal.
	ErrIngredientNotFound = errors.New("ingredient not in meal")
	// ErrDuplicateIngredient indicates the ingredient is already in the meal.
	ErrDuplicateIngredient = errors.New("ingredient already in meal")
	// ErrNilIngredient indicates a nil ingredient was passed.
	ErrNilIngredient = errors.New("nil ingredient")
)
