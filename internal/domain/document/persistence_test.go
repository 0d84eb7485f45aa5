package document_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/pantry/internal/codec"
	"github.com/rpggio/pantry/internal/domain/document"
	"github.com/rpggio/pantry/internal/domain/section"
	"github.com/rpggio/pantry/internal/repository"
	"github.com/rpggio/pantry/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_LoadIndexesUndatedMeal(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	old, _, err := svc.AddMeal(ctx, "Old")
	require.NoError(t, err)
	oldDoc := svc.Document()

	err = svc.Load(ctx, []byte(`{"unsorted": [], "meals": [{"name":"X","ingredients":[{"name":"A","date":null}]}]}`))
	require.NoError(t, err)

	meals := svc.Meals()
	require.Len(t, meals, 1)
	require.Equal(t, "X", meals[0].Title())
	sections := svc.Sections()
	require.Len(t, sections, 1)
	require.Equal(t, section.Undated, sections[0].Key)
	require.Equal(t, "Unsorted Food", svc.Unsorted().Title())

	_, ok := svc.Meal(old.ID)
	require.False(t, ok)
	require.Empty(t, oldDoc.Sections(), "previous document is purged")

	a := meals[0].Ingredients()[0]
	owner, ok := svc.Owner(a)
	require.True(t, ok)
	require.Same(t, meals[0], owner)
}

func TestService_LoadFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	dinner, _, err := svc.AddMeal(ctx, "Dinner")
	require.NoError(t, err)
	addDated(t, svc, dinner, "Rice", datePtr(2025, time.May, 3))

	before, err := svc.Save()
	require.NoError(t, err)

	for _, input := range [][]byte{
		[]byte(`{"meals": [`),
		[]byte("\xff\xfe"),
		[]byte(`{"meals":[{"name":"X","ingredients":[{"name":"A","date":[2025,2,30]}]}]}`),
	} {
		err := svc.Load(ctx, input)
		require.ErrorIs(t, err, codec.ErrDecode)

		after, err := svc.Save()
		require.NoError(t, err)
		require.Equal(t, before, after)
		require.Len(t, svc.Sections(), 1)
	}
}

func TestService_SaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	dinner, _, err := svc.AddMeal(ctx, "Dinner")
	require.NoError(t, err)
	addDated(t, svc, dinner, "Rice", datePtr(2025, time.May, 3))
	addDated(t, svc, svc.Unsorted(), "Eggs", nil)

	data, err := svc.Save()
	require.NoError(t, err)

	other := newService(t)
	require.NoError(t, other.Load(ctx, data))
	again, err := other.Save()
	require.NoError(t, err)
	require.Equal(t, data, again)
}

func TestService_SaveAsync(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	_, _, err := svc.AddMeal(ctx, "Dinner")
	require.NoError(t, err)
	want, err := svc.Save()
	require.NoError(t, err)

	store := &mocks.DocumentRepository{}
	store.On("Write", ctx, want).Return(nil).Once()
	require.NoError(t, <-svc.SaveAsync(ctx, store))

	boom := errors.New("disk full")
	store.On("Write", ctx, mock.Anything).Return(boom).Once()
	err = <-svc.SaveAsync(ctx, store)
	require.ErrorIs(t, err, boom)

	store.AssertExpectations(t)
}

func TestService_SaveAsyncSnapshotsBeforeWriting(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	want, err := svc.Save()
	require.NoError(t, err)

	release := make(chan time.Time)
	store := &mocks.DocumentRepository{}
	store.On("Write", ctx, want).WaitUntil(release).Return(nil).Once()

	done := svc.SaveAsync(ctx, store)
	_, _, err = svc.AddMeal(ctx, "Added after snapshot")
	require.NoError(t, err)
	close(release)

	require.NoError(t, <-done)
	store.AssertExpectations(t)
}

func TestService_LoadAsync(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	empty := &mocks.DocumentRepository{}
	empty.On("Read", ctx).Return(nil, repository.ErrNotFound)
	res := <-svc.LoadAsync(ctx, empty)
	require.NoError(t, res.Err)
	require.Empty(t, res.Document.Meals())
	require.Zero(t, res.Document.Unsorted().Len())

	store := &mocks.DocumentRepository{}
	store.On("Read", ctx).Return([]byte(`{"unsorted":[{"name":"Eggs","date":null}],"meals":[{"name":"Lunch","ingredients":[{"name":"Ham","date":[2025,1,15]}]}]}`), nil)
	res = <-svc.LoadAsync(ctx, store)
	require.NoError(t, res.Err)
	require.Empty(t, svc.Meals(), "loading does not install the document")

	svc.Replace(res.Document)
	require.Len(t, svc.Meals(), 1)
	require.Equal(t, 1, svc.Unsorted().Len())
	require.Equal(t, "Eat by 2025-01-15", svc.Sections()[0].Title)

	broken := &mocks.DocumentRepository{}
	broken.On("Read", ctx).Return([]byte(`not json`), nil)
	res = <-svc.LoadAsync(ctx, broken)
	require.ErrorIs(t, res.Err, codec.ErrDecode)
	require.Nil(t, res.Document)

	failing := &mocks.DocumentRepository{}
	failing.On("Read", ctx).Return(nil, errors.New("permission denied"))
	res = <-svc.LoadAsync(ctx, failing)
	require.Error(t, res.Err)
}

func TestService_ReplaceNotifiesSubscribers(t *testing.T) {
	svc := newService(t)
	var kinds []document.EventKind
	svc.Subscribe(func(ev document.Event) { kinds = append(kinds, ev.Kind) })

	res := <-svc.LoadAsync(context.Background(), func() document.Store {
		store := &mocks.DocumentRepository{}
		store.On("Read", mock.Anything).Return(nil, repository.ErrNotFound)
		return store
	}())
	svc.Replace(res.Document)
	svc.Replace(nil)

	require.Equal(t, []document.EventKind{document.EventDocumentReplaced}, kinds)
}
