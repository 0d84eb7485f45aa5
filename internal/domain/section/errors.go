package section

import "errors"

var (
	// ErrMealNotIndexed indicates the meal is not in the expected section.
	ErrMealNotIndexed = errors.New("meal not indexed")
	// ErrAlreadyIndexed indicates the meal already has a section.
	ErrAlreadyIndexed = errors.New("meal already indexed")
	// ErrNilMeal indicates a nil meal was passed.
	ErrNilMeal = errors.New("nil meal")
)
