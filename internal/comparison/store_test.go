package comparison

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cse-motors/motors/internal/account"
	"github.com/cse-motors/motors/internal/config"
	"github.com/cse-motors/motors/internal/database"
	"github.com/cse-motors/motors/internal/inventory"
	"github.com/cse-motors/motors/internal/models"
)

type storeFixture struct {
	db       *database.DB
	store    *Store
	accounts *account.Store
	vehicles *inventory.Store

	ownerID int64
	otherID int64

	civicID  int64
	accordID int64
	camryID  int64
}

func newStoreFixture(t *testing.T) *storeFixture {
	t.Helper()
	cfg := &config.Config{}
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "test.db")

	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &storeFixture{
		db:       db,
		store:    NewStore(db),
		accounts: account.NewStore(db),
		vehicles: inventory.NewStore(db),
	}

	ctx := context.Background()

	owner, err := f.accounts.Register(ctx, "Basil", "Vasquez", "basil@example.com", "hash")
	require.NoError(t, err)
	f.ownerID = owner.ID

	other, err := f.accounts.Register(ctx, "Ada", "Moreno", "ada@example.com", "hash")
	require.NoError(t, err)
	f.otherID = other.ID

	classID, err := f.vehicles.AddClassification(ctx, "Sedan")
	require.NoError(t, err)

	addVehicle := func(vehicleMake, vehicleModel string, price float64) int64 {
		id, err := f.vehicles.AddVehicle(ctx, &models.Vehicle{
			Make:             vehicleMake,
			Model:            vehicleModel,
			Year:             2022,
			Description:      "A dependable vehicle with a well documented service history.",
			Image:            inventory.DefaultImage,
			Thumbnail:        inventory.DefaultThumbnail,
			Price:            price,
			Miles:            30000,
			Color:            "Blue",
			ClassificationID: classID,
		})
		require.NoError(t, err)
		return id
	}

	f.civicID = addVehicle("Honda", "Civic", 24000)
	f.accordID = addVehicle("Honda", "Accord", 29000)
	f.camryID = addVehicle("Toyota", "Camry", 27000)

	return f
}

func (f *storeFixture) save(t *testing.T, accountID int64, name string, v1 int64, v2, v3 *int64) *models.Comparison {
	t.Helper()
	c := &models.Comparison{
		Name:       name,
		AccountID:  accountID,
		Vehicle1ID: v1,
		Vehicle2ID: v2,
		Vehicle3ID: v3,
	}
	require.NoError(t, f.store.Save(context.Background(), c))
	return c
}

func ptr(v int64) *int64 { return &v }

func TestSaveAndGetForAccount(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	saved := f.save(t, f.ownerID, "Commuter picks", f.civicID, ptr(f.accordID), nil)
	assert.NotZero(t, saved.ID)

	got, err := f.store.GetForAccount(ctx, saved.ID, f.ownerID)
	require.NoError(t, err)
	assert.Equal(t, "Commuter picks", got.Name)
	assert.Equal(t, f.civicID, got.Vehicle1ID)
	require.NotNil(t, got.Vehicle2ID)
	assert.Equal(t, f.accordID, *got.Vehicle2ID)
	assert.Nil(t, got.Vehicle3ID)
	assert.False(t, got.CreatedAt.IsZero())
}

// A comparison owned by someone else reads as not found, never as a
// permission error that would confirm its existence.
func TestGetForAccountScopedToOwner(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	saved := f.save(t, f.ownerID, "Commuter picks", f.civicID, nil, nil)

	_, err := f.store.GetForAccount(ctx, saved.ID, f.otherID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.store.GetForAccount(ctx, 9999, f.ownerID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByAccount(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	first := f.save(t, f.ownerID, "First", f.civicID, nil, nil)
	second := f.save(t, f.ownerID, "Second", f.accordID, ptr(f.camryID), nil)
	f.save(t, f.otherID, "Not mine", f.civicID, nil, nil)

	// Separate the save timestamps so the ordering is deterministic.
	_, err := f.db.Exec(
		"UPDATE comparison SET created_date = datetime('now', '-1 hour') WHERE comparison_id = ?",
		first.ID)
	require.NoError(t, err)

	list, err := f.store.ListByAccount(ctx, f.ownerID)
	require.NoError(t, err)
	require.Len(t, list, 2, "only the owner's comparisons are listed")

	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.Equal(t, first.ID, list[1].ID)

	require.NotNil(t, list[0].Vehicle1Name)
	assert.Equal(t, "Honda Accord (2022)", *list[0].Vehicle1Name)
	require.NotNil(t, list[0].Vehicle2Name)
	assert.Equal(t, "Toyota Camry (2022)", *list[0].Vehicle2Name)
	assert.Nil(t, list[0].Vehicle3Name)
}

func TestUpdateScopedToOwner(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	saved := f.save(t, f.ownerID, "Commuter picks", f.civicID, nil, nil)

	hijack := *saved
	hijack.AccountID = f.otherID
	hijack.Name = "Hijacked"
	assert.ErrorIs(t, f.store.Update(ctx, &hijack), ErrNotFound)

	unchanged, err := f.store.GetForAccount(ctx, saved.ID, f.ownerID)
	require.NoError(t, err)
	assert.Equal(t, "Commuter picks", unchanged.Name)

	saved.Name = "Weekend picks"
	saved.Vehicle2ID = ptr(f.camryID)
	require.NoError(t, f.store.Update(ctx, saved))

	updated, err := f.store.GetForAccount(ctx, saved.ID, f.ownerID)
	require.NoError(t, err)
	assert.Equal(t, "Weekend picks", updated.Name)
	require.NotNil(t, updated.Vehicle2ID)
	assert.Equal(t, f.camryID, *updated.Vehicle2ID)
}

func TestDeleteScopedToOwnerAndIdempotent(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	saved := f.save(t, f.ownerID, "Commuter picks", f.civicID, nil, nil)

	deleted, err := f.store.Delete(ctx, saved.ID, f.otherID)
	require.NoError(t, err)
	assert.False(t, deleted, "non-owner delete is a no-op")

	deleted, err = f.store.Delete(ctx, saved.ID, f.ownerID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = f.store.Delete(ctx, saved.ID, f.ownerID)
	require.NoError(t, err)
	assert.False(t, deleted, "repeat delete is a no-op, not an error")
}

// Popularity groups by the vehicle-id triple across accounts: the same
// pair saved three times outranks a single-vehicle comparison, and the
// counts never reveal who saved what.
func TestPopularGroupsByVehicleTriple(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	f.save(t, f.ownerID, "Pair A", f.civicID, ptr(f.accordID), nil)
	f.save(t, f.ownerID, "Pair B", f.civicID, ptr(f.accordID), nil)
	f.save(t, f.otherID, "Pair C", f.civicID, ptr(f.accordID), nil)
	f.save(t, f.otherID, "Solo", f.civicID, nil, nil)

	popular, err := f.store.Popular(ctx, 20)
	require.NoError(t, err)
	require.Len(t, popular, 2)

	top := popular[0]
	assert.Equal(t, 3, top.Count)
	assert.Equal(t, f.civicID, top.Vehicle1ID)
	require.NotNil(t, top.Vehicle2ID)
	assert.Equal(t, f.accordID, *top.Vehicle2ID)
	require.NotNil(t, top.Vehicle1Name)
	assert.Equal(t, "Honda Civic (2022)", *top.Vehicle1Name)
	require.NotNil(t, top.Vehicle2Price)
	assert.Equal(t, float64(29000), *top.Vehicle2Price)
	assert.Nil(t, top.Vehicle3Name)

	assert.Equal(t, 1, popular[1].Count)
	assert.Nil(t, popular[1].Vehicle2ID)
}

func TestPopularLimit(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()

	f.save(t, f.ownerID, "One", f.civicID, nil, nil)
	f.save(t, f.ownerID, "Two", f.accordID, nil, nil)
	f.save(t, f.ownerID, "Three", f.camryID, nil, nil)

	popular, err := f.store.Popular(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, popular, 2)
}
