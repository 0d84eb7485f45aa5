package ingredient

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Ingredient is a single trackable food item. Identity is the pointer; two
// ingredients with equal fields are distinct. ID only lets collaborators address it.
type Ingredient struct {
	ID string

	name       string
	bestBefore Date
	dated      bool
	frozen     bool
}

// New creates an ingredient. A nil bestBefore means undated.
func New(name string, bestBefore *Date) *Ingredient {
	ing := &Ingredient{
		ID:   uuid.NewString(),
		name: normalize(name),
	}
	if bestBefore != nil {
		ing.bestBefore = *bestBefore
		ing.dated = true
	}
	return ing
}

// Name returns the ingredient name.
func (i *Ingredient) Name() string {
	return i.name
}

// SetName renames the ingredient in place. The owning meal must be re-sorted.
func (i *Ingredient) SetName(name string) {
	i.name = normalize(name)
}

// BestBefore returns the best-before date and whether one is set.
func (i *Ingredient) BestBefore() (Date, bool) {
	return i.bestBefore, i.dated
}

// SetBestBefore sets the date in place. The owning meal must be re-sorted.
func (i *Ingredient) SetBestBefore(d Date) {
	i.bestBefore = d
	i.dated = true
}

// ClearBestBefore makes the ingredient undated.
func (i *Ingredient) ClearBestBefore() {
	i.bestBefore = Date{}
	i.dated = false
}

// Frozen reports whether the ingredient is frozen.
func (i *Ingredient) Frozen() bool {
	return i.frozen
}

// SetFrozen sets the frozen flag.
func (i *Ingredient) SetFrozen(frozen bool) {
	i.frozen = frozen
}

// SortDate is the best-before date, or MinDate when undated.
func (i *Ingredient) SortDate() Date {
	if !i.dated {
		return MinDate
	}
	return i.bestBefore
}

// Copy returns a new identity with the same fields.
func (i *Ingredient) Copy() *Ingredient {
	dup := *i
	dup.ID = uuid.NewString()
	return &dup
}

func (i *Ingredient) String() string {
	exp := "none"
	if i.dated {
		exp = i.bestBefore.String()
	}
	state := "unfrozen"
	if i.frozen {
		state = "frozen"
	}
	return fmt.Sprintf("%s (exp. %s) -- %s", i.name, exp, state)
}

// Compare orders undated ingredients first, then dated ones by date, then by name.
func Compare(a, b *Ingredient) int {
	switch {
	case a.dated != b.dated:
		if a.dated {
			return 1
		}
		return -1
	case a.dated:
		if c := a.bestBefore.Compare(b.bestBefore); c != 0 {
			return c
		}
	}
	return strings.Compare(a.name, b.name)
}

func normalize(s string) string {
	return norm.NFC.String(s)
}
