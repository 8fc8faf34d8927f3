package usecase

import (
	"context"
	"property-map/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoadedSelection(t *testing.T, backend *fakeBackend) (*SelectionController, *PropertyStore) {
	t.Helper()
	store := NewPropertyStore(backend, &fakeConfirmer{answer: true}, 10)
	require.NoError(t, store.Load(context.Background()))
	return NewSelectionController(store), store
}

func TestSelectionStartPlacementIsIdempotent(t *testing.T) {
	sel, _ := newLoadedSelection(t, newFakeBackend(sampleProperties()...))
	ctx := context.Background()

	require.NoError(t, sel.StartPlacement(ctx))
	require.True(t, sel.SetPendingLocation(ctx, domain.GeoPoint{Latitude: 1, Longitude: 2}))
	require.NoError(t, sel.StartPlacement(ctx))

	state := sel.State()
	assert.Equal(t, domain.ModePlacingProperty, state.Mode)
	require.NotNil(t, state.PendingLocation, "repeated start keeps the pending point")
}

func TestSelectionPendingLocationOnlyInPlacement(t *testing.T) {
	sel, _ := newLoadedSelection(t, newFakeBackend(sampleProperties()...))

	assert.False(t, sel.SetPendingLocation(context.Background(), domain.GeoPoint{Latitude: 1, Longitude: 2}))
	assert.Nil(t, sel.State().PendingLocation)
	assert.Nil(t, sel.Form())
}

func TestSelectionLastClickWins(t *testing.T) {
	sel, _ := newLoadedSelection(t, newFakeBackend())
	ctx := context.Background()
	require.NoError(t, sel.StartPlacement(ctx))

	points := []domain.GeoPoint{{Latitude: 1, Longitude: 1}, {Latitude: 2, Longitude: 2}, {Latitude: 4.6, Longitude: -74.1}}
	for _, p := range points {
		require.True(t, sel.SetPendingLocation(ctx, p))
	}

	state := sel.State()
	require.NotNil(t, state.PendingLocation)
	assert.Equal(t, points[2], *state.PendingLocation)
	d := sel.Form().Draft()
	assert.Equal(t, "4.6", d.Latitude)
	assert.Equal(t, "-74.1", d.Longitude)
}

func TestSelectionCancelPlacement(t *testing.T) {
	sel, _ := newLoadedSelection(t, newFakeBackend())
	ctx := context.Background()

	assert.ErrorIs(t, sel.CancelPlacement(ctx), domain.ErrInvalidTransition)

	require.NoError(t, sel.StartPlacement(ctx))
	sel.SetPendingLocation(ctx, domain.GeoPoint{Latitude: 1, Longitude: 1})
	require.NoError(t, sel.CancelPlacement(ctx))

	state := sel.State()
	assert.Equal(t, domain.ModeBrowsing, state.Mode)
	assert.Nil(t, state.PendingLocation)
	assert.Nil(t, sel.Form())
}

func TestSelectionSubmitPlacementWithoutPoint(t *testing.T) {
	backend := newFakeBackend()
	sel, _ := newLoadedSelection(t, backend)
	ctx := context.Background()

	_, err := sel.SubmitPlacement(ctx, domain.NewPropertyDraft())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	require.NoError(t, sel.StartPlacement(ctx))
	_, err = sel.SubmitPlacement(ctx, domain.NewPropertyDraft())
	assert.ErrorIs(t, err, domain.ErrNoPendingLocation)
	assert.Empty(t, backend.createdInputs)
}

func TestSelectionSubmitPlacementAppliesDefaults(t *testing.T) {
	backend := newFakeBackend()
	sel, store := newLoadedSelection(t, backend)
	ctx := context.Background()
	require.NoError(t, sel.StartPlacement(ctx))
	sel.SetPendingLocation(ctx, domain.GeoPoint{Latitude: 4.6, Longitude: -74.1})

	draft := domain.NewPropertyDraft()
	draft.Latitude = "99"
	created, err := sel.SubmitPlacement(ctx, draft)
	require.NoError(t, err)

	require.Len(t, backend.createdInputs, 1)
	in := backend.createdInputs[0]
	assert.Equal(t, DefaultPlacementName, in.Name)
	assert.Equal(t, DefaultPlacementAddress, in.Address)
	assert.Equal(t, DefaultPlacementType, in.Type)
	assert.Equal(t, 4.6, in.Latitude, "the map point overrides typed coordinates")
	assert.Equal(t, -74.1, in.Longitude)

	assert.Equal(t, domain.ModeBrowsing, sel.State().Mode)
	assert.Nil(t, sel.Form())
	_, ok := store.Find(created.ID)
	assert.True(t, ok)
}

func TestSelectionSubmitPlacementFailureKeepsMode(t *testing.T) {
	backend := newFakeBackend()
	backend.createErr = errBackendDown
	sel, store := newLoadedSelection(t, backend)
	ctx := context.Background()
	require.NoError(t, sel.StartPlacement(ctx))
	sel.SetPendingLocation(ctx, domain.GeoPoint{Latitude: 4.6, Longitude: -74.1})

	draft := domain.NewPropertyDraft()
	draft.Name = "Casa X"
	_, err := sel.SubmitPlacement(ctx, draft)

	require.ErrorIs(t, err, domain.ErrNetworkFailure)
	state := sel.State()
	assert.Equal(t, domain.ModePlacingProperty, state.Mode)
	require.NotNil(t, state.PendingLocation)
	require.NotNil(t, sel.Form())
	assert.Equal(t, "Casa X", sel.Form().Draft().Name)
	assert.Equal(t, MsgCreateError, store.Error())
}

func TestSelectionEditFlow(t *testing.T) {
	backend := newFakeBackend(sampleProperties()...)
	sel, store := newLoadedSelection(t, backend)
	ctx := context.Background()

	assert.ErrorIs(t, sel.BeginEdit(ctx, "missing"), domain.ErrNotFound)

	require.NoError(t, sel.BeginEdit(ctx, "2"))
	state := sel.State()
	assert.Equal(t, domain.ModeEditingExisting, state.Mode)
	require.NotNil(t, state.SelectedID)
	assert.Equal(t, domain.PropertyID("2"), *state.SelectedID)
	assert.ErrorIs(t, sel.StartPlacement(ctx), domain.ErrInvalidTransition)

	draft := sel.Form().Draft()
	draft.Price = "175000"
	require.NoError(t, sel.SubmitEdit(ctx, draft))

	assert.Equal(t, []domain.PropertyID{"2"}, backend.updatedIDs)
	assert.Equal(t, 175000.0, backend.updatedInputs[0].Price)
	state = sel.State()
	assert.Equal(t, domain.ModeBrowsing, state.Mode)
	assert.Nil(t, state.SelectedID)
	p, _ := store.Find("2")
	assert.Equal(t, 175000.0, p.Price)
}

func TestSelectionSubmitEditFailureStaysEditing(t *testing.T) {
	backend := newFakeBackend(sampleProperties()...)
	sel, _ := newLoadedSelection(t, backend)
	ctx := context.Background()
	require.NoError(t, sel.BeginEdit(ctx, "1"))
	backend.updateErr = errBackendDown

	err := sel.SubmitEdit(ctx, sel.Form().Draft())

	require.Error(t, err)
	assert.Equal(t, domain.ModeEditingExisting, sel.State().Mode)
	assert.NotNil(t, sel.Form())
}

func TestSelectionCancelEditKeepsSelection(t *testing.T) {
	sel, _ := newLoadedSelection(t, newFakeBackend(sampleProperties()...))
	ctx := context.Background()
	require.NoError(t, sel.BeginEdit(ctx, "3"))

	require.NoError(t, sel.CancelEdit(ctx))

	state := sel.State()
	assert.Equal(t, domain.ModeBrowsing, state.Mode)
	require.NotNil(t, state.SelectedID)
	assert.Nil(t, sel.Form())
	assert.ErrorIs(t, sel.CancelEdit(ctx), domain.ErrInvalidTransition)
}

func TestSelectionSelectAnyMode(t *testing.T) {
	sel, _ := newLoadedSelection(t, newFakeBackend(sampleProperties()...))
	ctx := context.Background()
	require.NoError(t, sel.StartPlacement(ctx))

	p, ok := sel.Select(ctx, "3")
	require.True(t, ok)
	assert.Equal(t, "Oficina 93", p.Name)
	assert.Equal(t, domain.ModePlacingProperty, sel.State().Mode)

	_, ok = sel.Select(ctx, "nope")
	assert.False(t, ok)
	assert.Equal(t, domain.PropertyID("3"), *sel.State().SelectedID)
}

func TestSelectionStateIsACopy(t *testing.T) {
	sel, _ := newLoadedSelection(t, newFakeBackend(sampleProperties()...))
	ctx := context.Background()
	sel.Select(ctx, "1")

	state := sel.State()
	*state.SelectedID = "changed"

	assert.Equal(t, domain.PropertyID("1"), *sel.State().SelectedID)
}

func TestSelectionNotifiesListener(t *testing.T) {
	sel, _ := newLoadedSelection(t, newFakeBackend())
	ctx := context.Background()
	var reasons []string
	sel.OnChange(func(_ context.Context, reason string) { reasons = append(reasons, reason) })

	require.NoError(t, sel.StartPlacement(ctx))
	sel.SetPendingLocation(ctx, domain.GeoPoint{Latitude: 1, Longitude: 1})
	require.NoError(t, sel.CancelPlacement(ctx))

	assert.Equal(t, []string{"placement_started", "pending_location", "placement_cancelled"}, reasons)
}
