package document

import (
	"github.com/rpggio/pantry/internal/domain/ingredient"
	"github.com/rpggio/pantry/internal/domain/meal"
	"github.com/rpggio/pantry/internal/domain/section"
)

// Document owns one pantry: the unsorted bucket, every other meal through the
// section index, and the map from each ingredient to the meal holding it.
type Document struct {
	unsorted *meal.Meal
	index    *section.Index
	owners   map[*ingredient.Ingredient]*meal.Meal
}

func newDocument(unsorted *meal.Meal, index *section.Index) *Document {
	doc := &Document{
		unsorted: unsorted,
		index:    index,
		owners:   make(map[*ingredient.Ingredient]*meal.Meal),
	}
	doc.adopt(unsorted)
	for _, m := range index.Meals() {
		doc.adopt(m)
	}
	return doc
}

func (d *Document) adopt(m *meal.Meal) {
	for _, ing := range m.Ingredients() {
		d.owners[ing] = m
	}
}

func (d *Document) release(m *meal.Meal) {
	for _, ing := range m.Ingredients() {
		delete(d.owners, ing)
	}
}

func (d *Document) contains(m *meal.Meal) bool {
	return m != nil && (m == d.unsorted || d.index.Contains(m))
}

func (d *Document) purge() {
	d.index.Purge()
	clear(d.owners)
}

// Unsorted returns the special bucket.
func (d *Document) Unsorted() *meal.Meal {
	return d.unsorted
}

// Meals returns the indexed meals in display order.
func (d *Document) Meals() []*meal.Meal {
	return d.index.Meals()
}

// Offset returns the number of display slots reserved ahead of the sections.
func (d *Document) Offset() int {
	return d.index.Offset()
}

// Sections returns the derived sections in display order.
func (d *Document) Sections() []*section.Section {
	return d.index.Sections()
}

// Change describes where a meal sits after a mutation.
type Change struct {
	Meal     *meal.Meal
	Position section.Position
	// Unsorted is set for the special bucket, which is not indexed.
	Unsorted bool
	Count    string
}

// MoveResult reports both meals touched by MoveIngredient.
type MoveResult struct {
	From Change
	To   Change
}

// EditRequest describes in-place ingredient edits. Nil fields are left alone.
type EditRequest struct {
	Name            *string
	BestBefore      *ingredient.Date
	ClearBestBefore bool
	Frozen          *bool
}

// EventKind names a change notification.
type EventKind string

const (
	EventMealAdded        EventKind = "meal_added"
	EventMealChanged      EventKind = "meal_changed"
	EventMealRemoved      EventKind = "meal_removed"
	EventDocumentReplaced EventKind = "document_replaced"
)

// Event is delivered to subscribers after every successful mutation.
type Event struct {
	Kind               EventKind
	Change             Change
	CanMoveIngredients bool
}

// LoadResult is delivered by LoadAsync.
type LoadResult struct {
	Document *Document
	Err      error
}
