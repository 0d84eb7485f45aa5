package ingredient

import "errors"

var (
	// ErrInvalidDate indicates a date outside the calendar.
	ErrInvalidDate = errors.New("invalid date")
)
