package section_test

import (
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rpggio/pantry/internal/domain/ingredient"
	"github.com/rpggio/pantry/internal/domain/meal"
	"github.com/rpggio/pantry/internal/domain/section"
	"github.com/rpggio/pantry/internal/locale"
	"github.com/stretchr/testify/require"
)

type sectionView struct {
	Title string
	Meals []string
}

func layout(idx *section.Index) []sectionView {
	var out []sectionView
	for _, sec := range idx.Sections() {
		v := sectionView{Title: sec.Title}
		for _, m := range sec.Meals() {
			v.Meals = append(v.Meals, m.Title())
		}
		out = append(out, v)
	}
	return out
}

func isoIndex(t *testing.T, offset int) *section.Index {
	t.Helper()
	p, err := locale.New("en", ingredient.DateLayout)
	require.NoError(t, err)
	return section.NewIndex(offset, section.WithTitles(section.PrinterTitles(p)))
}

func datedMeal(t *testing.T, title string, y int, mo time.Month, d int) *meal.Meal {
	t.Helper()
	m := meal.New(title, false)
	date := ingredient.MustDate(y, mo, d)
	require.NoError(t, m.Add(ingredient.New("item", &date)))
	return m
}

func TestIndex_SectionsOrderedByDate(t *testing.T) {
	idx := isoIndex(t, 0)
	breakfast := datedMeal(t, "Breakfast", 2025, time.February, 1)
	lunch := datedMeal(t, "Lunch", 2025, time.January, 15)

	_, err := idx.Add(breakfast)
	require.NoError(t, err)
	pos, err := idx.Add(lunch)
	require.NoError(t, err)
	require.Equal(t, 0, pos.Section)
	require.Equal(t, "Eat by 2025-01-15", pos.Title)

	want := []sectionView{
		{Title: "Eat by 2025-01-15", Meals: []string{"Lunch"}},
		{Title: "Eat by 2025-02-01", Meals: []string{"Breakfast"}},
	}
	if diff := cmp.Diff(want, layout(idx)); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}
}

func TestIndex_UpdatePositionMovesToUndated(t *testing.T) {
	idx := isoIndex(t, 0)
	breakfast := datedMeal(t, "Breakfast", 2025, time.February, 1)
	lunch := datedMeal(t, "Lunch", 2025, time.January, 15)
	_, err := idx.Add(breakfast)
	require.NoError(t, err)
	_, err = idx.Add(lunch)
	require.NoError(t, err)

	previous := section.KeyOf(lunch)
	require.NoError(t, lunch.Add(ingredient.New("Bread", nil)))

	pos, err := idx.UpdatePosition(lunch, previous)
	require.NoError(t, err)
	require.Equal(t, section.Undated, pos.Key)
	require.Equal(t, "Undated", pos.Title)

	want := []sectionView{
		{Title: "Undated", Meals: []string{"Lunch"}},
		{Title: "Eat by 2025-02-01", Meals: []string{"Breakfast"}},
	}
	if diff := cmp.Diff(want, layout(idx)); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}
	_, ok := idx.Section(previous)
	require.False(t, ok, "emptied section is removed")
}

func TestIndex_UpdatePositionWrongPreviousKey(t *testing.T) {
	idx := isoIndex(t, 0)
	lunch := datedMeal(t, "Lunch", 2025, time.January, 15)
	_, err := idx.Add(lunch)
	require.NoError(t, err)

	_, err = idx.UpdatePosition(lunch, section.Undated)
	require.ErrorIs(t, err, section.ErrMealNotIndexed)
	require.True(t, idx.Contains(lunch))
}

func TestIndex_OffsetShiftsPositions(t *testing.T) {
	idx := isoIndex(t, 1)
	require.Equal(t, 1, idx.Offset())

	undated := meal.New("Leftovers", false)
	pos, err := idx.Add(undated)
	require.NoError(t, err)
	require.Equal(t, 1, pos.Section)
	require.Equal(t, 0, pos.Meal)

	pos, err = idx.Add(datedMeal(t, "Dinner", 2025, time.March, 3))
	require.NoError(t, err)
	require.Equal(t, 2, pos.Section)
}

func TestIndex_MealsSortedByTitleWithStableTies(t *testing.T) {
	idx := isoIndex(t, 0)
	first := meal.New("Soup", false)
	second := meal.New("Soup", false)
	apple := meal.New("Apple pie", false)

	for _, m := range []*meal.Meal{first, second, apple} {
		_, err := idx.Add(m)
		require.NoError(t, err)
	}

	got := idx.Meals()
	require.Len(t, got, 3)
	require.Same(t, apple, got[0])
	require.Same(t, first, got[1])
	require.Same(t, second, got[2])

	pos, ok := idx.Locate(second)
	require.True(t, ok)
	require.Equal(t, 2, pos.Meal)
}

func TestIndex_AddRemoveErrors(t *testing.T) {
	idx := section.NewIndex(0)
	m := meal.New("Dinner", false)

	require.ErrorIs(t, idx.Remove(m), section.ErrMealNotIndexed)
	_, err := idx.Add(nil)
	require.ErrorIs(t, err, section.ErrNilMeal)

	_, err = idx.Add(m)
	require.NoError(t, err)
	_, err = idx.Add(m)
	require.ErrorIs(t, err, section.ErrAlreadyIndexed)

	require.NoError(t, idx.Remove(m))
	require.Zero(t, idx.Len())
	require.Empty(t, idx.Sections())
}

func TestIndex_RemoveUsesPlacementAfterMutation(t *testing.T) {
	idx := isoIndex(t, 0)
	lunch := datedMeal(t, "Lunch", 2025, time.January, 15)
	_, err := idx.Add(lunch)
	require.NoError(t, err)

	// The meal's derived key changes without a reposition; removal still finds it.
	require.NoError(t, lunch.Add(ingredient.New("Bread", nil)))
	require.NoError(t, idx.Remove(lunch))
	require.Empty(t, idx.Sections())
}

func TestIndex_RebuildAndPurge(t *testing.T) {
	idx := isoIndex(t, 0)
	a := datedMeal(t, "A", 2025, time.January, 1)
	b := datedMeal(t, "B", 2025, time.January, 2)
	for _, m := range []*meal.Meal{a, b} {
		_, err := idx.Add(m)
		require.NoError(t, err)
	}

	// Out-of-band edit, then rebuild recomputes keys.
	date := ingredient.MustDate(2025, time.January, 3)
	require.NoError(t, a.Add(ingredient.New("late", &date)))
	for _, ing := range a.Ingredients() {
		if ing.Name() == "item" {
			ing.SetBestBefore(ingredient.MustDate(2025, time.January, 9))
		}
	}
	a.Resort()
	require.NoError(t, idx.Rebuild())

	want := []sectionView{
		{Title: "Eat by 2025-01-02", Meals: []string{"B"}},
		{Title: "Eat by 2025-01-03", Meals: []string{"A"}},
	}
	if diff := cmp.Diff(want, layout(idx)); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}

	idx.Purge()
	require.Zero(t, idx.Len())
	require.Empty(t, idx.Meals())
	require.False(t, idx.Contains(a))
}

func TestIndex_DefaultTitlesUseLocaleLayout(t *testing.T) {
	idx := section.NewIndex(0)
	pos, err := idx.Add(datedMeal(t, "Lunch", 2025, time.January, 15))
	require.NoError(t, err)
	require.Equal(t, "Eat by 15/01/2025", pos.Title)
}

func TestKey_Compare(t *testing.T) {
	early := section.DatedKey(ingredient.MustDate(2025, time.January, 1))
	late := section.DatedKey(ingredient.MustDate(2025, time.January, 2))

	require.Equal(t, 0, section.Undated.Compare(section.Undated))
	require.Equal(t, -1, section.Undated.Compare(early))
	require.Equal(t, 1, early.Compare(section.Undated))
	require.Equal(t, -1, early.Compare(late))
	require.Equal(t, "undated", section.Undated.String())
	require.Equal(t, "2025-01-02", late.String())
}

// Every indexed meal sits in exactly one section whose key matches its eat-by,
// and sections stay strictly ascending, across random edits.
func TestIndex_InvariantsUnderRandomEdits(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	idx := section.NewIndex(2)
	var meals []*meal.Meal

	for step := 0; step < 300; step++ {
		switch {
		case len(meals) == 0 || rng.Intn(4) == 0:
			m := meal.New(string(rune('A'+rng.Intn(6))), false)
			_, err := idx.Add(m)
			require.NoError(t, err)
			meals = append(meals, m)
		case rng.Intn(6) == 0:
			i := rng.Intn(len(meals))
			require.NoError(t, idx.Remove(meals[i]))
			meals = slices.Delete(meals, i, i+1)
		default:
			m := meals[rng.Intn(len(meals))]
			previous := section.KeyOf(m)
			ings := m.Ingredients()
			if len(ings) > 0 && rng.Intn(3) == 0 {
				require.NoError(t, m.Remove(ings[rng.Intn(len(ings))]))
			} else if rng.Intn(5) == 0 {
				require.NoError(t, m.Add(ingredient.New("x", nil)))
			} else {
				d := ingredient.MustDate(2025, time.Month(1+rng.Intn(2)), 1+rng.Intn(28))
				require.NoError(t, m.Add(ingredient.New("y", &d)))
			}
			_, err := idx.UpdatePosition(m, previous)
			require.NoError(t, err)
		}

		require.Equal(t, len(meals), idx.Len())
		sections := idx.Sections()
		for i := 1; i < len(sections); i++ {
			require.Equal(t, -1, sections[i-1].Key.Compare(sections[i].Key))
		}
		for _, m := range meals {
			key := section.KeyOf(m)
			count := 0
			for _, sec := range sections {
				if slices.Contains(sec.Meals(), m) {
					count++
					require.Equal(t, key, sec.Key)
				}
			}
			require.Equal(t, 1, count)
			pos, ok := idx.Locate(m)
			require.True(t, ok)
			require.GreaterOrEqual(t, pos.Section, 2)
		}
	}
}
