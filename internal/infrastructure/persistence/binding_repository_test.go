package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormBindingRepository_FindBothWays(t *testing.T) {
	repo := NewGormBindingRepository(setupTestDB(t))
	ctx := context.Background()
	backendID, internalID := uuid.New(), uuid.New()

	binding, err := connector.NewBinding(backendID, connector.EntityProductTemplate, 42, internalID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, binding))

	byExternal, err := repo.FindByExternalID(ctx, backendID, connector.EntityProductTemplate, 42)
	require.NoError(t, err)
	assert.Equal(t, internalID, byExternal.InternalID)
	assert.Equal(t, connector.EntityProductTemplate, byExternal.EntityType)

	byInternal, err := repo.FindByInternalID(ctx, backendID, connector.EntityProductTemplate, internalID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), byInternal.ExternalID)

	t.Run("scoped by entity and backend", func(t *testing.T) {
		_, err := repo.FindByExternalID(ctx, backendID, connector.EntityProductCombination, 42)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		_, err = repo.FindByExternalID(ctx, uuid.New(), connector.EntityProductTemplate, 42)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		_, err = repo.FindByInternalID(ctx, backendID, connector.EntityProductTemplate, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormBindingRepository_SaveUpdatesInPlace(t *testing.T) {
	repo := NewGormBindingRepository(setupTestDB(t))
	ctx := context.Background()
	backendID := uuid.New()

	binding, err := connector.NewBinding(backendID, connector.EntityTax, 3, uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, binding))

	synced := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	binding.Touch(synced)
	require.NoError(t, repo.Save(ctx, binding))

	all, err := repo.ListByBackend(ctx, backendID, connector.EntityTax)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].SyncDate)
	assert.True(t, synced.Equal(*all[0].SyncDate))
}

func TestGormBindingRepository_UniqueIdentities(t *testing.T) {
	repo := NewGormBindingRepository(setupTestDB(t))
	ctx := context.Background()
	backendID, internalID := uuid.New(), uuid.New()

	first, err := connector.NewBinding(backendID, connector.EntityPartner, 5, internalID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	sameRemote, err := connector.NewBinding(backendID, connector.EntityPartner, 5, uuid.New())
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(ctx, sameRemote), shared.ErrAlreadyExists)

	sameLocal, err := connector.NewBinding(backendID, connector.EntityPartner, 6, internalID)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(ctx, sameLocal), shared.ErrAlreadyExists)

	otherBackend, err := connector.NewBinding(uuid.New(), connector.EntityPartner, 5, internalID)
	require.NoError(t, err)
	assert.NoError(t, repo.Save(ctx, otherBackend))
}

func TestGormBindingRepository_ListByBackendOrdered(t *testing.T) {
	repo := NewGormBindingRepository(setupTestDB(t))
	ctx := context.Background()
	backendID := uuid.New()

	for _, id := range []int64{9, 2, 5} {
		b, err := connector.NewBinding(backendID, connector.EntityCarrier, id, uuid.New())
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, b))
	}
	other, err := connector.NewBinding(backendID, connector.EntityAddress, 1, uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, other))

	list, err := repo.ListByBackend(ctx, backendID, connector.EntityCarrier)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{2, 5, 9}, []int64{list[0].ExternalID, list[1].ExternalID, list[2].ExternalID})
}

func TestGormBindingRepository_RejectsInvalid(t *testing.T) {
	repo := NewGormBindingRepository(setupTestDB(t))
	err := repo.Save(context.Background(), &connector.Binding{BackendID: uuid.New(), EntityType: connector.EntityTax, InternalID: uuid.New()})
	assert.ErrorIs(t, err, connector.ErrBindingInvalidExternalID)
}
