package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rpggio/pantry/internal/domain/activity"
	"github.com/rpggio/pantry/internal/domain/ingredient"
	"github.com/rpggio/pantry/internal/domain/meal"
	"github.com/rpggio/pantry/internal/domain/section"
	"github.com/rpggio/pantry/internal/locale"
)

// Service applies user intents to the current document and keeps the section
// index in step with every meal's eat-by date.
//
// A Service is not safe for concurrent use; callers serialize intents.
type Service struct {
	doc      *Document
	printer  *locale.Printer
	offset   int
	strict   bool
	activity ActivityLogger
	logger   *slog.Logger

	subscribers map[int]func(Event)
	nextSub     int
}

// NewService creates a service holding an empty document. activity may be nil.
func NewService(activity ActivityLogger, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Service{
		printer:     locale.Default(),
		offset:      DefaultSectionOffset,
		activity:    activity,
		logger:      logger,
		subscribers: make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.doc = s.emptyDocument()
	return s
}

func (s *Service) indexOptions() []section.Option {
	return []section.Option{section.WithTitles(section.PrinterTitles(s.printer))}
}

func (s *Service) emptyDocument() *Document {
	unsorted := meal.New(s.printer.UnsortedTitle(), true)
	return newDocument(unsorted, section.NewIndex(s.offset, s.indexOptions()...))
}

// Document returns the current document.
func (s *Service) Document() *Document {
	return s.doc
}

// Printer returns the locale used for display strings.
func (s *Service) Printer() *locale.Printer {
	return s.printer
}

// Subscribe registers fn for change notifications and returns a function that
// unregisters it.
func (s *Service) Subscribe(fn func(Event)) func() {
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	return func() {
		delete(s.subscribers, id)
	}
}

func (s *Service) notify(kind EventKind, c Change) {
	if len(s.subscribers) == 0 {
		return
	}
	ev := Event{Kind: kind, Change: c, CanMoveIngredients: s.CanMoveIngredients()}
	for _, fn := range s.subscribers {
		fn(ev)
	}
}

// violation handles a request naming a meal or ingredient that is not where the
// caller believes. Strict services report it; lenient ones log and ignore it.
func (s *Service) violation(op string, err error) error {
	if s.strict {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.logger.Warn("ignoring request for missing entity", "op", op, "error", err)
	return nil
}

func (s *Service) record(ctx context.Context, typ activity.Type, m *meal.Meal, ing *ingredient.Ingredient, summary string) {
	if s.activity == nil {
		return
	}
	entry := &activity.Entry{Type: typ, Summary: summary}
	if m != nil {
		id := m.ID
		entry.MealID = &id
	}
	if ing != nil {
		id := ing.ID
		entry.IngredientID = &id
	}
	if err := s.activity.Log(ctx, entry); err != nil {
		s.logger.Warn("recording activity failed", "type", typ, "error", err)
	}
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("blank name: %w", ErrInvalidInput)
	}
	return nil
}

func (s *Service) change(m *meal.Meal) Change {
	c := Change{Meal: m, Count: s.printer.CountLabel(m.Len(), m.Special())}
	if m == s.doc.unsorted {
		c.Unsorted = true
		c.Position = section.Position{Title: m.Title()}
		return c
	}
	c.Position, _ = s.doc.index.Locate(m)
	return c
}

// relocate re-keys m after a mutation. previous must be captured before the
// mutation.
func (s *Service) relocate(m *meal.Meal, previous section.Key) (Change, error) {
	if m == s.doc.unsorted {
		return s.change(m), nil
	}
	if _, err := s.doc.index.UpdatePosition(m, previous); err != nil {
		return Change{}, fmt.Errorf("relocating meal %q: %w", m.Title(), err)
	}
	return s.change(m), nil
}

// Unsorted returns the special bucket of the current document.
func (s *Service) Unsorted() *meal.Meal {
	return s.doc.unsorted
}

// Meals returns the indexed meals in display order. The unsorted bucket is not included.
func (s *Service) Meals() []*meal.Meal {
	return s.doc.index.Meals()
}

// Sections returns the date sections in display order.
func (s *Service) Sections() []*section.Section {
	return s.doc.index.Sections()
}

// Meal looks up a meal by ID, including the unsorted bucket.
func (s *Service) Meal(id string) (*meal.Meal, bool) {
	if s.doc.unsorted.ID == id {
		return s.doc.unsorted, true
	}
	for _, m := range s.doc.index.Meals() {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// Ingredient looks up an ingredient by ID.
func (s *Service) Ingredient(id string) (*ingredient.Ingredient, bool) {
	for ing := range s.doc.owners {
		if ing.ID == id {
			return ing, true
		}
	}
	return nil, false
}

// Owner returns the meal currently holding ing.
func (s *Service) Owner(ing *ingredient.Ingredient) (*meal.Meal, bool) {
	m, ok := s.doc.owners[ing]
	return m, ok
}

// Describe reports where m currently sits.
func (s *Service) Describe(m *meal.Meal) (Change, bool) {
	if !s.doc.contains(m) {
		return Change{}, false
	}
	return s.change(m), true
}

// CanMoveIngredients reports whether a move target exists: there must be more
// than one meal, the unsorted bucket included.
func (s *Service) CanMoveIngredients() bool {
	return s.doc.index.Len()+1 > 1
}

// NewIngredient creates an unattached ingredient. A nil bestBefore means undated.
func (s *Service) NewIngredient(name string, bestBefore *ingredient.Date) (*ingredient.Ingredient, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return ingredient.New(name, bestBefore), nil
}

// AddIngredientTo inserts a new ingredient into m and relocates m.
func (s *Service) AddIngredientTo(ctx context.Context, m *meal.Meal, ing *ingredient.Ingredient) (Change, error) {
	if ing == nil {
		return Change{}, fmt.Errorf("add ingredient: nil ingredient: %w", ErrInvalidInput)
	}
	if err := validateName(ing.Name()); err != nil {
		return Change{}, fmt.Errorf("add ingredient: %w", err)
	}
	if !s.doc.contains(m) {
		return Change{}, s.violation("add ingredient", ErrMealNotFound)
	}
	if owner, ok := s.doc.owners[ing]; ok {
		return Change{}, fmt.Errorf("add ingredient: already in %q: %w", owner.Title(), ErrInvalidOperation)
	}

	previous := section.KeyOf(m)
	if err := m.Add(ing); err != nil {
		return Change{}, fmt.Errorf("add ingredient: %w", err)
	}
	s.doc.owners[ing] = m

	c, err := s.relocate(m, previous)
	if err != nil {
		return Change{}, err
	}
	s.record(ctx, activity.TypeIngredientAdded, m, ing, fmt.Sprintf("added %s to %s", ing.Name(), m.Title()))
	s.notify(EventMealChanged, c)
	return c, nil
}

// RemoveIngredientFrom drops ing from m and relocates m.
func (s *Service) RemoveIngredientFrom(ctx context.Context, m *meal.Meal, ing *ingredient.Ingredient) (Change, error) {
	if !s.doc.contains(m) {
		return Change{}, s.violation("remove ingredient", ErrMealNotFound)
	}
	if ing == nil || s.doc.owners[ing] != m {
		return Change{}, s.violation("remove ingredient", ErrIngredientNotFound)
	}

	previous := section.KeyOf(m)
	if err := m.Remove(ing); err != nil {
		return Change{}, s.violation("remove ingredient", err)
	}
	delete(s.doc.owners, ing)

	c, err := s.relocate(m, previous)
	if err != nil {
		return Change{}, err
	}
	s.record(ctx, activity.TypeIngredientRemoved, m, ing, fmt.Sprintf("ate %s from %s", ing.Name(), m.Title()))
	s.notify(EventMealChanged, c)
	return c, nil
}

// EatIngredient removes ing from whichever meal holds it.
func (s *Service) EatIngredient(ctx context.Context, ing *ingredient.Ingredient) (Change, error) {
	owner, ok := s.doc.owners[ing]
	if !ok {
		return Change{}, s.violation("eat ingredient", ErrIngredientNotFound)
	}
	return s.RemoveIngredientFrom(ctx, owner, ing)
}

// MoveIngredient transfers ownership of ing from one meal to another and
// relocates both.
func (s *Service) MoveIngredient(ctx context.Context, ing *ingredient.Ingredient, from, to *meal.Meal) (MoveResult, error) {
	if !s.CanMoveIngredients() {
		return MoveResult{}, fmt.Errorf("move ingredient: no other meal: %w", ErrInvalidOperation)
	}
	if from == to {
		return MoveResult{}, fmt.Errorf("move ingredient: source and target are the same meal: %w", ErrInvalidOperation)
	}
	if !s.doc.contains(from) || !s.doc.contains(to) {
		return MoveResult{}, s.violation("move ingredient", ErrMealNotFound)
	}
	if ing == nil || s.doc.owners[ing] != from {
		return MoveResult{}, s.violation("move ingredient", ErrIngredientNotFound)
	}

	prevFrom, prevTo := section.KeyOf(from), section.KeyOf(to)
	if err := from.Remove(ing); err != nil {
		return MoveResult{}, s.violation("move ingredient", err)
	}
	if err := to.Add(ing); err != nil {
		// Restore before reporting; from had ing a moment ago.
		_ = from.Add(ing)
		return MoveResult{}, fmt.Errorf("move ingredient: %w", err)
	}
	s.doc.owners[ing] = to

	if _, err := s.relocate(from, prevFrom); err != nil {
		return MoveResult{}, err
	}
	toChange, err := s.relocate(to, prevTo)
	if err != nil {
		return MoveResult{}, err
	}
	res := MoveResult{From: s.change(from), To: toChange}

	s.record(ctx, activity.TypeIngredientMoved, to, ing,
		fmt.Sprintf("moved %s from %s to %s", ing.Name(), from.Title(), to.Title()))
	s.notify(EventMealChanged, res.From)
	s.notify(EventMealChanged, res.To)
	return res, nil
}

// EditIngredient changes an ingredient in place, then re-sorts and relocates
// its meal.
func (s *Service) EditIngredient(ctx context.Context, ing *ingredient.Ingredient, req EditRequest) (Change, error) {
	if req.BestBefore != nil && req.ClearBestBefore {
		return Change{}, fmt.Errorf("edit ingredient: both setting and clearing the date: %w", ErrInvalidInput)
	}
	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return Change{}, fmt.Errorf("edit ingredient: %w", err)
		}
	}
	owner, ok := s.doc.owners[ing]
	if !ok {
		return Change{}, s.violation("edit ingredient", ErrIngredientNotFound)
	}

	previous := section.KeyOf(owner)
	if req.Name != nil {
		ing.SetName(*req.Name)
	}
	switch {
	case req.BestBefore != nil:
		ing.SetBestBefore(*req.BestBefore)
	case req.ClearBestBefore:
		ing.ClearBestBefore()
	}
	if req.Frozen != nil {
		ing.SetFrozen(*req.Frozen)
	}
	owner.Resort()

	c, err := s.relocate(owner, previous)
	if err != nil {
		return Change{}, err
	}
	s.record(ctx, activity.TypeIngredientEdited, owner, ing, fmt.Sprintf("edited %s", ing))
	s.notify(EventMealChanged, c)
	return c, nil
}

// DuplicateIngredient adds a copy of ing, with a new identity, to the same meal.
func (s *Service) DuplicateIngredient(ctx context.Context, ing *ingredient.Ingredient) (*ingredient.Ingredient, Change, error) {
	owner, ok := s.doc.owners[ing]
	if !ok {
		return nil, Change{}, s.violation("duplicate ingredient", ErrIngredientNotFound)
	}

	previous := section.KeyOf(owner)
	dup := ing.Copy()
	if err := owner.Add(dup); err != nil {
		return nil, Change{}, fmt.Errorf("duplicate ingredient: %w", err)
	}
	s.doc.owners[dup] = owner

	c, err := s.relocate(owner, previous)
	if err != nil {
		return nil, Change{}, err
	}
	s.record(ctx, activity.TypeIngredientDuplicated, owner, dup, fmt.Sprintf("duplicated %s in %s", dup.Name(), owner.Title()))
	s.notify(EventMealChanged, c)
	return dup, c, nil
}

// AddMeal creates an empty meal and indexes it.
func (s *Service) AddMeal(ctx context.Context, name string) (*meal.Meal, Change, error) {
	if err := validateName(name); err != nil {
		return nil, Change{}, fmt.Errorf("add meal: %w", err)
	}
	m := meal.New(name, false)
	if _, err := s.doc.index.Add(m); err != nil {
		return nil, Change{}, fmt.Errorf("add meal: %w", err)
	}

	c := s.change(m)
	s.record(ctx, activity.TypeMealAdded, m, nil, fmt.Sprintf("added meal %s", m.Title()))
	s.notify(EventMealAdded, c)
	return m, c, nil
}

// RenameMeal retitles m and re-sorts it within its section.
func (s *Service) RenameMeal(ctx context.Context, m *meal.Meal, name string) (Change, error) {
	if err := validateName(name); err != nil {
		return Change{}, fmt.Errorf("rename meal: %w", err)
	}
	if m != nil && m == s.doc.unsorted {
		return Change{}, fmt.Errorf("rename meal: the unsorted bucket has a fixed title: %w", ErrInvalidOperation)
	}
	if !s.doc.contains(m) {
		return Change{}, s.violation("rename meal", ErrMealNotFound)
	}

	old := m.Title()
	previous := section.KeyOf(m)
	m.SetTitle(name)

	c, err := s.relocate(m, previous)
	if err != nil {
		return Change{}, err
	}
	s.record(ctx, activity.TypeMealRenamed, m, nil, fmt.Sprintf("renamed %s to %s", old, m.Title()))
	s.notify(EventMealChanged, c)
	return c, nil
}

// DuplicateMeal deep-copies m as a new meal and indexes it.
func (s *Service) DuplicateMeal(ctx context.Context, m *meal.Meal) (*meal.Meal, Change, error) {
	if m != nil && m == s.doc.unsorted {
		return nil, Change{}, fmt.Errorf("duplicate meal: cannot duplicate the unsorted bucket: %w", ErrInvalidOperation)
	}
	if !s.doc.contains(m) {
		return nil, Change{}, s.violation("duplicate meal", ErrMealNotFound)
	}

	dup := m.Duplicate()
	if _, err := s.doc.index.Add(dup); err != nil {
		return nil, Change{}, fmt.Errorf("duplicate meal: %w", err)
	}
	s.doc.adopt(dup)

	c := s.change(dup)
	s.record(ctx, activity.TypeMealDuplicated, dup, nil, fmt.Sprintf("duplicated meal %s", m.Title()))
	s.notify(EventMealAdded, c)
	return dup, c, nil
}

// DeleteMeal removes m and every ingredient it holds.
func (s *Service) DeleteMeal(ctx context.Context, m *meal.Meal) error {
	if m != nil && m == s.doc.unsorted {
		return fmt.Errorf("delete meal: cannot delete the unsorted bucket: %w", ErrInvalidOperation)
	}
	if !s.doc.contains(m) {
		return s.violation("delete meal", ErrMealNotFound)
	}

	c := s.change(m)
	if err := s.doc.index.Remove(m); err != nil {
		return s.violation("delete meal", err)
	}
	s.doc.release(m)

	s.record(ctx, activity.TypeMealEaten, m, nil, fmt.Sprintf("ate meal %s", m.Title()))
	s.notify(EventMealRemoved, c)
	return nil
}
