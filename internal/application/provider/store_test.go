package provider

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsconsole/backend/internal/domain/provider"
	"github.com/opsconsole/backend/internal/domain/shared"
)

func confirmedMaterial(id, name string) *provider.Material {
	return &provider.Material{
		ID:         shared.ConfirmedIdentity(id),
		ProviderID: "prov-1",
		Name:       name,
		Unit:       "kg",
		UnitPrice:  decimal.NewFromInt(10),
		Active:     true,
	}
}

func pendingMaterial(t *testing.T, name string) *provider.Material {
	material, err := provider.NewMaterial("prov-1", name, "kg", decimal.NewFromInt(10), decimal.Zero)
	require.NoError(t, err)
	return material
}

func TestCollection_ApplyOptimistic(t *testing.T) {
	t.Run("inserts provisional record at the front", func(t *testing.T) {
		var c Collection[*provider.Material]
		c.Reset([]*provider.Material{confirmedMaterial("m-1", "Sand")})

		material := pendingMaterial(t, "Granite")
		tempID, err := c.ApplyOptimistic(material)
		require.NoError(t, err)
		assert.True(t, tempID.IsPending())

		snapshot := c.Snapshot()
		require.Len(t, snapshot, 2)
		assert.Equal(t, "Granite", snapshot[0].Name)
		assert.Equal(t, "Sand", snapshot[1].Name)
	})

	t.Run("rejects confirmed identities", func(t *testing.T) {
		var c Collection[*provider.Material]
		_, err := c.ApplyOptimistic(confirmedMaterial("m-1", "Sand"))
		assert.Error(t, err)
		assert.Equal(t, 0, c.Len())
	})
}

// A rollback after a failed create must restore the exact pre-mutation state.
func TestCollection_Rollback(t *testing.T) {
	var c Collection[*provider.Material]
	existing := confirmedMaterial("m-1", "Sand")
	c.Reset([]*provider.Material{existing})

	tempID, err := c.ApplyOptimistic(pendingMaterial(t, "Granite"))
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	c.Rollback(tempID)

	snapshot := c.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Same(t, existing, snapshot[0])
}

// Confirmation must swap the provisional record for the server-issued one in
// place, never duplicate it.
func TestCollection_Confirm(t *testing.T) {
	var c Collection[*provider.Material]
	c.Reset([]*provider.Material{confirmedMaterial("m-1", "Sand")})

	tempID, err := c.ApplyOptimistic(pendingMaterial(t, "Granite"))
	require.NoError(t, err)

	c.Confirm(tempID, confirmedMaterial("m-42", "Granite"))

	snapshot := c.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "m-42", snapshot[0].ID.String())
	assert.True(t, snapshot[0].ID.IsConfirmed())

	// The temp identity no longer resolves
	_, found := c.Get(tempID)
	assert.False(t, found)
}

// Confirm and rollback are idempotent: resolving an identity that was already
// reconciled is a no-op, not an error.
func TestCollection_ReconcileIdempotent(t *testing.T) {
	var c Collection[*provider.Material]

	tempID, err := c.ApplyOptimistic(pendingMaterial(t, "Granite"))
	require.NoError(t, err)

	c.Confirm(tempID, confirmedMaterial("m-42", "Granite"))
	c.Confirm(tempID, confirmedMaterial("m-43", "Granite"))
	c.Rollback(tempID)

	snapshot := c.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "m-42", snapshot[0].ID.String())
}

func TestCollection_ReplaceAndRemove(t *testing.T) {
	var c Collection[*provider.Material]
	c.Reset([]*provider.Material{
		confirmedMaterial("m-1", "Sand"),
		confirmedMaterial("m-2", "Gravel"),
	})

	c.Replace("m-2", confirmedMaterial("m-2", "Fine gravel"))
	updated, found := c.GetConfirmed("m-2")
	require.True(t, found)
	assert.Equal(t, "Fine gravel", updated.Name)

	// Replace of an absent id is a no-op
	c.Replace("m-99", confirmedMaterial("m-99", "Ghost"))
	assert.Equal(t, 2, c.Len())

	c.Remove("m-1")
	assert.Equal(t, 1, c.Len())
	c.Remove("m-1")
	assert.Equal(t, 1, c.Len())
}

// A pending identity never matches a confirmed one, even with an equal value.
func TestCollection_NoKindCollision(t *testing.T) {
	var c Collection[*provider.Material]
	material := pendingMaterial(t, "Granite")
	tempID, err := c.ApplyOptimistic(material)
	require.NoError(t, err)

	_, found := c.GetConfirmed(tempID.Value)
	assert.False(t, found)
}

func TestStore_PartitionLifecycle(t *testing.T) {
	store := NewStore()

	p1 := store.Open("prov-1")
	p2 := store.Open("prov-2")
	assert.NotSame(t, p1, p2)

	// Reopening returns the same partition
	assert.Same(t, p1, store.Open("prov-1"))

	// Mutations in one partition never leak into another
	require.NoError(t, func() error {
		_, err := p1.Materials().ApplyOptimistic(pendingMaterial(t, "Granite"))
		return err
	}())
	assert.Equal(t, 1, p1.Materials().Len())
	assert.Equal(t, 0, p2.Materials().Len())

	store.Close("prov-1")
	_, open := store.Get("prov-1")
	assert.False(t, open)

	// Closing discards state: a reopen starts empty
	assert.Equal(t, 0, store.Open("prov-1").Materials().Len())
}

func TestPartition_Activities(t *testing.T) {
	store := NewStore()
	p := store.Open("prov-1")

	assert.Empty(t, p.Activities())

	records := []provider.ActivityRecord{
		{ID: "a-1", ProviderID: "prov-1", Type: provider.ActivityOrderCreated},
		{ID: "a-2", ProviderID: "prov-1", Type: provider.ActivityPaymentCreated},
	}
	p.ReplaceActivities(records)
	assert.Len(t, p.Activities(), 2)

	// Wholesale replacement, not a merge
	p.ReplaceActivities(records[:1])
	assert.Len(t, p.Activities(), 1)
}
