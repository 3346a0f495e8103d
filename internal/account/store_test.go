package account

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cse-motors/motors/internal/config"
	"github.com/cse-motors/motors/internal/database"
	"github.com/cse-motors/motors/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	cfg := &config.Config{}
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "test.db")

	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewStore(db)
}

func TestRegisterAndLookup(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	acct, err := store.Register(ctx, "Basil", "Vasquez", "basil@example.com", "hashed-password")
	require.NoError(t, err)
	assert.NotZero(t, acct.ID)
	assert.Equal(t, "Basil", acct.FirstName)
	assert.Equal(t, "basil@example.com", acct.Email)
	assert.Equal(t, "hashed-password", acct.PasswordHash)
	assert.Equal(t, models.AccountTypeClient, acct.Type)

	byEmail, err := store.GetByEmail(ctx, "basil@example.com")
	require.NoError(t, err)
	assert.Equal(t, acct.ID, byEmail.ID)

	byID, err := store.GetByID(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "basil@example.com", byID.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, err := store.Register(ctx, "Basil", "Vasquez", "basil@example.com", "hash-one")
	require.NoError(t, err)

	_, err = store.Register(ctx, "Other", "Person", "basil@example.com", "hash-two")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLookupMissing(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, err := store.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	acct, err := store.Register(ctx, "Basil", "Vasquez", "basil@example.com", "hash")
	require.NoError(t, err)

	err = store.UpdateProfile(ctx, acct.ID, "Basilio", "Vasquez", "basilio@example.com")
	require.NoError(t, err)

	updated, err := store.GetByID(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "Basilio", updated.FirstName)
	assert.Equal(t, "basilio@example.com", updated.Email)
	assert.Equal(t, "hash", updated.PasswordHash, "password must survive a profile update")

	assert.ErrorIs(t, store.UpdateProfile(ctx, 9999, "A", "B", "a@b.com"), ErrNotFound)
}

func TestUpdatePassword(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	acct, err := store.Register(ctx, "Basil", "Vasquez", "basil@example.com", "old-hash")
	require.NoError(t, err)

	require.NoError(t, store.UpdatePassword(ctx, acct.ID, "new-hash"))

	updated, err := store.GetByID(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", updated.PasswordHash)
	assert.Equal(t, "Basil", updated.FirstName, "profile must survive a password update")

	assert.ErrorIs(t, store.UpdatePassword(ctx, 9999, "hash"), ErrNotFound)
}
