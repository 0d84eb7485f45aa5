package section

import (
	"fmt"
	"slices"
	"sort"

	"github.com/rpggio/pantry/internal/domain/meal"
	"github.com/rpggio/pantry/internal/locale"
)

// TitleFunc renders the display title of a section key.
type TitleFunc func(Key) string

// Option configures an Index.
type Option func(*Index)

// WithTitles overrides how section titles are rendered.
func WithTitles(fn TitleFunc) Option {
	return func(idx *Index) {
		if fn != nil {
			idx.titles = fn
		}
	}
}

// PrinterTitles renders titles through a locale printer.
func PrinterTitles(p *locale.Printer) TitleFunc {
	return func(k Key) string {
		return p.SectionTitle(k.Date, k.Dated)
	}
}

// Index buckets meals into sections by eat-by key. Display order is offset
// reserved slots, then Undated, then dated sections ascending. Each indexed meal
// is in exactly one section; the placement map records which.
//
// An Index is not safe for concurrent use.
type Index struct {
	offset    int
	titles    TitleFunc
	sections  map[Key]*Section
	order     []*Section
	placement map[*meal.Meal]Key
}

// NewIndex creates an empty index with offset leading slots reserved for
// sections owned elsewhere.
func NewIndex(offset int, opts ...Option) *Index {
	if offset < 0 {
		offset = 0
	}
	idx := &Index{
		offset: offset,
		titles: PrinterTitles(locale.Default()),
	}
	idx.reset()
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

func (idx *Index) reset() {
	idx.sections = make(map[Key]*Section)
	idx.order = nil
	idx.placement = make(map[*meal.Meal]Key)
}

// Offset returns the number of reserved leading slots.
func (idx *Index) Offset() int {
	return idx.offset
}

// Add indexes m under its current eat-by key, creating the section if needed.
// Within a section meals are ordered by title; equal titles keep insertion order.
func (idx *Index) Add(m *meal.Meal) (Position, error) {
	if m == nil {
		return Position{}, ErrNilMeal
	}
	if _, ok := idx.placement[m]; ok {
		return Position{}, ErrAlreadyIndexed
	}

	key := KeyOf(m)
	sec, ok := idx.sections[key]
	if !ok {
		sec = &Section{Key: key, Title: idx.titles(key)}
		idx.sections[key] = sec
		pos := sort.Search(len(idx.order), func(i int) bool {
			return idx.order[i].Key.Compare(key) > 0
		})
		idx.order = slices.Insert(idx.order, pos, sec)
	}

	pos := sort.Search(len(sec.meals), func(i int) bool {
		return meal.CompareTitles(sec.meals[i], m) > 0
	})
	sec.meals = slices.Insert(sec.meals, pos, m)
	idx.placement[m] = key

	p, _ := idx.Locate(m)
	return p, nil
}

// Remove drops m from the section it was last placed in. Empty sections are removed.
func (idx *Index) Remove(m *meal.Meal) error {
	key, ok := idx.placement[m]
	if !ok {
		return ErrMealNotIndexed
	}
	return idx.removeFrom(m, key)
}

// UpdatePosition moves m out of the section keyed previous and re-adds it under
// its current key. previous must be the key m had before the mutation that
// triggered the move; the index cannot recover it from an already-mutated meal.
func (idx *Index) UpdatePosition(m *meal.Meal, previous Key) (Position, error) {
	if err := idx.removeFrom(m, previous); err != nil {
		return Position{}, fmt.Errorf("removing from section %s: %w", previous, err)
	}
	return idx.Add(m)
}

func (idx *Index) removeFrom(m *meal.Meal, key Key) error {
	sec, ok := idx.sections[key]
	if !ok {
		return ErrMealNotIndexed
	}
	i := slices.Index(sec.meals, m)
	if i < 0 {
		return ErrMealNotIndexed
	}

	sec.meals = slices.Delete(sec.meals, i, i+1)
	delete(idx.placement, m)

	if len(sec.meals) == 0 {
		delete(idx.sections, key)
		if j := slices.Index(idx.order, sec); j >= 0 {
			idx.order = slices.Delete(idx.order, j, j+1)
		}
	}
	return nil
}

// Rebuild clears every section and re-adds all indexed meals in their current
// display order, recomputing keys from meal state.
func (idx *Index) Rebuild() error {
	meals := idx.Meals()
	idx.reset()
	for _, m := range meals {
		if _, err := idx.Add(m); err != nil {
			return fmt.Errorf("re-adding meal %s: %w", m.ID, err)
		}
	}
	return nil
}

// Purge drops every section and meal.
func (idx *Index) Purge() {
	idx.reset()
}

// Sections returns the sections in display order, excluding the reserved slots.
func (idx *Index) Sections() []*Section {
	return slices.Clone(idx.order)
}

// Section returns the section for key, if any meal currently has it.
func (idx *Index) Section(key Key) (*Section, bool) {
	sec, ok := idx.sections[key]
	return sec, ok
}

// Meals returns every indexed meal flattened in display order.
func (idx *Index) Meals() []*meal.Meal {
	out := make([]*meal.Meal, 0, len(idx.placement))
	for _, sec := range idx.order {
		out = append(out, sec.meals...)
	}
	return out
}

// Key returns the key m was last placed under.
func (idx *Index) Key(m *meal.Meal) (Key, bool) {
	key, ok := idx.placement[m]
	return key, ok
}

// Contains reports whether m is indexed.
func (idx *Index) Contains(m *meal.Meal) bool {
	_, ok := idx.placement[m]
	return ok
}

// Locate returns m's current display position.
func (idx *Index) Locate(m *meal.Meal) (Position, bool) {
	key, ok := idx.placement[m]
	if !ok {
		return Position{}, false
	}
	sec := idx.sections[key]
	return Position{
		Section: idx.offset + slices.Index(idx.order, sec),
		Meal:    slices.Index(sec.meals, m),
		Key:     key,
		Title:   sec.Title,
	}, true
}

// Len returns the number of indexed meals.
func (idx *Index) Len() int {
	return len(idx.placement)
}
