package section

import (
	"slices"

	"github.com/rpggio/pantry/internal/domain/ingredient"
	"github.com/rpggio/pantry/internal/domain/meal"
)

// Key identifies a section: a meal's eat-by date, or undated.
type Key struct {
	Date  ingredient.Date
	Dated bool
}

// Undated is the key of meals without an eat-by date.
var Undated = Key{}

// DatedKey returns the key for an eat-by date.
func DatedKey(d ingredient.Date) Key {
	return Key{Date: d, Dated: true}
}

// KeyOf returns the key matching m's current eat-by date.
func KeyOf(m *meal.Meal) Key {
	d, ok := m.EatBy()
	if !ok {
		return Undated
	}
	return DatedKey(d)
}

// Compare orders keys chronologically with Undated first.
func (k Key) Compare(other Key) int {
	switch {
	case !k.Dated && !other.Dated:
		return 0
	case !k.Dated:
		return -1
	case !other.Dated:
		return 1
	default:
		return k.Date.Compare(other.Date)
	}
}

func (k Key) String() string {
	if !k.Dated {
		return "undated"
	}
	return k.Date.String()
}

// Section groups meals sharing an eat-by key. Sections are derived, never stored.
type Section struct {
	Key   Key
	Title string

	meals []*meal.Meal
}

// Meals returns the section's meals in title order.
func (s *Section) Meals() []*meal.Meal {
	return slices.Clone(s.meals)
}

// Len returns the number of meals in the section.
func (s *Section) Len() int {
	return len(s.meals)
}

// Position is where a meal currently sits in the display order. Section
// includes the index's reserved offset slots.
type Position struct {
	Section int
	Meal    int
	Key     Key
	Title   string
}
