package meal

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rpggio/pantry/internal/domain/ingredient"
	"golang.org/x/text/unicode/norm"
)

// Meal is a named group of ingredients kept sorted by (sort date, name).
// Its eat-by date is cached and recomputed lazily after mutations.
type Meal struct {
	ID string

	title       string
	special     bool
	ingredients []*ingredient.Ingredient

	cachedEatBy ingredient.Date
	cachedDated bool
	cacheValid  bool
}

// New creates an empty meal. Special marks the always-present unsorted bucket.
func New(title string, special bool) *Meal {
	return &Meal{
		ID:      uuid.NewString(),
		title:   norm.NFC.String(title),
		special: special,
	}
}

// Title returns the meal title.
func (m *Meal) Title() string {
	return m.title
}

// SetTitle renames the meal. The eat-by date is unaffected.
func (m *Meal) SetTitle(title string) {
	m.title = norm.NFC.String(title)
}

// Special reports whether this is the unsorted bucket.
func (m *Meal) Special() bool {
	return m.special
}

// Len returns the number of ingredients.
func (m *Meal) Len() int {
	return len(m.ingredients)
}

// Ingredients returns the ingredients in sort order.
func (m *Meal) Ingredients() []*ingredient.Ingredient {
	return slices.Clone(m.ingredients)
}

// Contains reports whether ing is a member, by identity.
func (m *Meal) Contains(ing *ingredient.Ingredient) bool {
	return m.indexOf(ing) >= 0
}

// Add inserts ing at its sorted position, after any ingredients with an equal key.
func (m *Meal) Add(ing *ingredient.Ingredient) error {
	if ing == nil {
		return ErrNilIngredient
	}
	if m.Contains(ing) {
		return ErrDuplicateIngredient
	}

	pos := sort.Search(len(m.ingredients), func(i int) bool {
		return ingredient.Compare(m.ingredients[i], ing) > 0
	})
	m.ingredients = slices.Insert(m.ingredients, pos, ing)
	m.Invalidate()
	return nil
}

// Remove deletes ing by identity.
func (m *Meal) Remove(ing *ingredient.Ingredient) error {
	idx := m.indexOf(ing)
	if idx < 0 {
		return ErrIngredientNotFound
	}
	m.ingredients = slices.Delete(m.ingredients, idx, idx+1)
	m.Invalidate()
	return nil
}

// Resort restores sort order after an ingredient changed in place.
func (m *Meal) Resort() {
	slices.SortStableFunc(m.ingredients, ingredient.Compare)
	m.Invalidate()
}

// Invalidate marks the cached eat-by date stale.
func (m *Meal) Invalidate() {
	m.cacheValid = false
}

// EatBy returns the earliest best-before date. It is undefined (false) when the
// meal is empty or any ingredient is undated.
func (m *Meal) EatBy() (ingredient.Date, bool) {
	if m.cacheValid {
		return m.cachedEatBy, m.cachedDated
	}

	var (
		earliest ingredient.Date
		dated    = len(m.ingredients) > 0
	)
	for i, ing := range m.ingredients {
		d, ok := ing.BestBefore()
		if !ok {
			dated = false
			break
		}
		if i == 0 || d.Before(earliest) {
			earliest = d
		}
	}
	if !dated {
		earliest = ingredient.Date{}
	}

	m.cachedEatBy = earliest
	m.cachedDated = dated
	m.cacheValid = true
	return earliest, dated
}

// Duplicate deep-copies the meal. Ingredients get new identities and keep their order.
func (m *Meal) Duplicate() *Meal {
	dup := New(m.title, m.special)
	dup.ingredients = make([]*ingredient.Ingredient, 0, len(m.ingredients))
	for _, ing := range m.ingredients {
		dup.ingredients = append(dup.ingredients, ing.Copy())
	}
	return dup
}

func (m *Meal) String() string {
	exp := "none"
	if d, ok := m.EatBy(); ok {
		exp = d.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (exp. %s)", m.title, exp)
	if len(m.ingredients) == 0 {
		b.WriteString("\n\t[No ingredients]")
	}
	for _, ing := range m.ingredients {
		fmt.Fprintf(&b, "\n\t%s", ing)
	}
	return b.String()
}

func (m *Meal) indexOf(ing *ingredient.Ingredient) int {
	return slices.Index(m.ingredients, ing)
}

// CompareTitles orders meals by title.
func CompareTitles(a, b *Meal) int {
	return strings.Compare(a.title, b.title)
}
