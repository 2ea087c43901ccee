package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionScope(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()
	backendID, companyID := uuid.New(), uuid.New()

	importCarrier := func(externalID int64, fail error) (uuid.UUID, error) {
		id := uuid.New()
		err := scope.Execute(ctx, func(ctx context.Context, repos connector.Repositories) error {
			now := time.Now()
			carrier := &connector.Carrier{ID: id, CompanyID: companyID, Name: "Seur", Active: true, CreatedAt: now, UpdatedAt: now}
			if err := repos.Partners().SaveCarrier(ctx, carrier); err != nil {
				return err
			}
			binder := connector.NewRepositoryBinder(backendID, repos.Bindings(), nil)
			if _, err := binder.Bind(ctx, connector.EntityCarrier, externalID, id); err != nil {
				return err
			}
			return fail
		})
		return id, err
	}

	t.Run("commits on success", func(t *testing.T) {
		id, err := importCarrier(1, nil)
		require.NoError(t, err)

		repos := NewRepositories(db)
		_, err = repos.Partners().FindCarrierByID(ctx, id)
		require.NoError(t, err)
		binding, err := repos.Bindings().FindByExternalID(ctx, backendID, connector.EntityCarrier, 1)
		require.NoError(t, err)
		assert.Equal(t, id, binding.InternalID)
		assert.NotNil(t, binding.SyncDate)
	})

	t.Run("rolls back every write on error", func(t *testing.T) {
		boom := errors.New("remote read failed")
		id, err := importCarrier(2, boom)
		assert.ErrorIs(t, err, boom)

		repos := NewRepositories(db)
		_, err = repos.Partners().FindCarrierByID(ctx, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		_, err = repos.Bindings().FindByExternalID(ctx, backendID, connector.EntityCarrier, 2)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormTaxAndPartnerRepositories(t *testing.T) {
	db := setupTestDB(t)
	taxes := NewGormTaxRepository(db)
	partners := NewGormPartnerRepository(db)
	ctx := context.Background()
	companyID := uuid.New()
	now := time.Now()

	group := &connector.TaxGroup{ID: uuid.New(), CompanyID: companyID, Name: "IVA 21", Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, taxes.SaveGroup(ctx, group))
	tax := &connector.Tax{
		ID: uuid.New(), CompanyID: companyID, GroupID: &group.ID, Name: "IVA 21%",
		Amount: decimal21(), AmountType: connector.TaxAmountPercent, TypeTaxUse: connector.TaxUseSale,
		Active: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, taxes.Save(ctx, tax))

	byName, err := taxes.FindGroupByName(ctx, companyID, "IVA 21")
	require.NoError(t, err)
	assert.Equal(t, group.ID, byName.ID)

	inGroup, err := taxes.ListByGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, inGroup, 1)
	assert.True(t, inGroup[0].IsSalePercent())
	assert.True(t, decimal21().Equal(inGroup[0].Amount))

	parent := &connector.Partner{ID: uuid.New(), CompanyID: companyID, Type: connector.PartnerTypeContact, Name: "Ana", Email: "Ana@Example.com", Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, partners.Save(ctx, parent))
	address := &connector.Partner{ID: uuid.New(), CompanyID: companyID, ParentID: &parent.ID, Type: connector.PartnerTypeOther, Name: "Ana", Email: "ana@example.com", Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, partners.Save(ctx, address))

	found, err := partners.FindByEmail(ctx, companyID, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, parent.ID, found.ID)

	_, err = partners.FindByEmail(ctx, uuid.New(), "ana@example.com")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
