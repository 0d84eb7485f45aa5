package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/pantry/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	base := time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC)
	entry1 := &activity.Entry{
		Type:      activity.TypeMealAdded,
		Summary:   "added meal Dinner",
		Details:   `{"title":"Dinner"}`,
		CreatedAt: base,
	}
	entry2 := &activity.Entry{
		Type:      activity.TypeIngredientAdded,
		Summary:   "added Rice to Dinner",
		CreatedAt: base.Add(time.Minute),
	}

	require.NoError(t, repo.Log(ctx, entry1))
	require.NoError(t, repo.Log(ctx, entry2))
	require.NotZero(t, entry1.ID)

	entries, err := repo.List(ctx, activity.ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, entry2.Type, entries[0].Type)
	require.Equal(t, entry1.Type, entries[1].Type)
	require.Equal(t, `{"title":"Dinner"}`, entries[1].Details)
	require.Nil(t, entries[1].MealID)
}

func TestActivityRepository_Filters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	mealID := "m1"
	ingredientID := "i1"
	require.NoError(t, repo.Log(ctx, &activity.Entry{
		Type:         activity.TypeIngredientMoved,
		MealID:       &mealID,
		IngredientID: &ingredientID,
		Summary:      "moved Rice",
	}))
	require.NoError(t, repo.Log(ctx, &activity.Entry{
		Type:    activity.TypeMealAdded,
		Summary: "added meal Lunch",
	}))

	entries, err := repo.List(ctx, activity.ListOptions{MealID: &mealID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, ingredientID, *entries[0].IngredientID)

	typ := activity.TypeMealAdded
	entries, err = repo.List(ctx, activity.ListOptions{Type: &typ})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "added meal Lunch", entries[0].Summary)

	entries, err = repo.List(ctx, activity.ListOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(ctx, activity.ListOptions{Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
