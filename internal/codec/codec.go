// Package codec converts the pantry document to and from its JSON exchange
// format. Sections are derived state and never appear in the format.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rpggio/pantry/internal/domain/ingredient"
	"github.com/rpggio/pantry/internal/domain/meal"
	"github.com/rpggio/pantry/internal/domain/section"
)

// UnsortedTitle is the title given to a decoded unsorted bucket.
const UnsortedTitle = "Unsorted Food"

type document struct {
	Unsorted []ingredientRecord `json:"unsorted"`
	Meals    []mealRecord       `json:"meals"`
}

type mealRecord struct {
	Name        *string            `json:"name"`
	Ingredients []ingredientRecord `json:"ingredients"`
}

type ingredientRecord struct {
	Name *string `json:"name"`
	Date []int   `json:"date"`
}

// Encode renders the unsorted bucket and meals, in the order given, as compact
// JSON followed by a newline. A nil unsorted meal encodes as an empty list.
func Encode(unsorted *meal.Meal, meals []*meal.Meal) ([]byte, error) {
	doc := document{
		Unsorted: []ingredientRecord{},
		Meals:    make([]mealRecord, 0, len(meals)),
	}
	if unsorted != nil {
		doc.Unsorted = encodeIngredients(unsorted.Ingredients())
	}
	for _, m := range meals {
		title := m.Title()
		doc.Meals = append(doc.Meals, mealRecord{
			Name:        &title,
			Ingredients: encodeIngredients(m.Ingredients()),
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeIngredients(ings []*ingredient.Ingredient) []ingredientRecord {
	out := make([]ingredientRecord, 0, len(ings))
	for _, ing := range ings {
		name := ing.Name()
		rec := ingredientRecord{Name: &name}
		if d, ok := ing.BestBefore(); ok {
			rec.Date = []int{d.Year, int(d.Month), d.Day}
		}
		out = append(out, rec)
	}
	return out
}

// Snapshot is a decoded document not yet attached to any index.
type Snapshot struct {
	Unsorted *meal.Meal
	Meals    []*meal.Meal
}

// Index builds a fresh section index holding every meal of the snapshot.
func (s *Snapshot) Index(offset int, opts ...section.Option) (*section.Index, error) {
	idx := section.NewIndex(offset, opts...)
	for _, m := range s.Meals {
		if _, err := idx.Add(m); err != nil {
			return nil, fmt.Errorf("index meal %q: %w", m.Title(), err)
		}
	}
	return idx, nil
}

// Decode parses an exchange document. Every meal is rebuilt through
// meal.Add, so ingredient order is re-established regardless of input order.
// Failures are reported as *DecodeError.
func Decode(data []byte) (*Snapshot, error) {
	if !utf8.Valid(data) {
		return nil, &DecodeError{Msg: "input is not valid UTF-8"}
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &DecodeError{Msg: "document must be a JSON object"}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &DecodeError{Msg: "malformed JSON", Err: err}
	}

	snap := &Snapshot{
		Unsorted: meal.New(UnsortedTitle, true),
		Meals:    make([]*meal.Meal, 0, len(doc.Meals)),
	}
	if err := decodeInto(snap.Unsorted, doc.Unsorted, "unsorted"); err != nil {
		return nil, err
	}

	for i, rec := range doc.Meals {
		path := fmt.Sprintf("meals[%d]", i)
		if err := checkName(rec.Name, path); err != nil {
			return nil, err
		}
		m := meal.New(*rec.Name, false)
		if err := decodeInto(m, rec.Ingredients, path+".ingredients"); err != nil {
			return nil, err
		}
		snap.Meals = append(snap.Meals, m)
	}
	return snap, nil
}

func decodeInto(m *meal.Meal, recs []ingredientRecord, path string) error {
	for i, rec := range recs {
		p := fmt.Sprintf("%s[%d]", path, i)
		if err := checkName(rec.Name, p); err != nil {
			return err
		}
		var bestBefore *ingredient.Date
		if rec.Date != nil {
			d, err := decodeDate(rec.Date)
			if err != nil {
				return &DecodeError{Path: p + ".date", Msg: "invalid date", Err: err}
			}
			bestBefore = &d
		}
		if err := m.Add(ingredient.New(*rec.Name, bestBefore)); err != nil {
			return &DecodeError{Path: p, Msg: "adding ingredient", Err: err}
		}
	}
	return nil
}

func checkName(name *string, path string) error {
	switch {
	case name == nil:
		return &DecodeError{Path: path + ".name", Msg: "missing name"}
	case strings.TrimSpace(*name) == "":
		return &DecodeError{Path: path + ".name", Msg: "blank name"}
	}
	return nil
}

func decodeDate(triple []int) (ingredient.Date, error) {
	if len(triple) != 3 {
		return ingredient.Date{}, fmt.Errorf("want [year, month, day], got %d elements: %w", len(triple), ingredient.ErrInvalidDate)
	}
	return ingredient.NewDate(triple[0], time.Month(triple[1]), triple[2])
}
