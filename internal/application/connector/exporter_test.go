package connector

import (
	"context"
	"testing"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saleTax(groupID *uuid.UUID, rate string) connector.Tax {
	return connector.Tax{
		ID: uuid.New(), CompanyID: testCompanyID, GroupID: groupID, Name: "IVA " + rate,
		Amount: decimal.RequireFromString(rate), AmountType: connector.TaxAmountPercent,
		TypeTaxUse: connector.TaxUseSale, Active: true,
	}
}

func TestExporter_CreatesThenWritesTax(t *testing.T) {
	f := newFixture()
	tax := saleTax(nil, "19.6")
	f.store.taxes.put(tax.ID, tax)
	ctx := context.Background()

	binding, err := NewExporter(NewImporter(f.env())).Export(ctx, connector.EntityTax, tax.ID)
	require.NoError(t, err)
	require.NotNil(t, binding)
	require.Len(t, f.shop.created, 1)
	created := f.shop.created[0]
	assert.Equal(t, "taxes", created.resource)
	assert.Equal(t, "19.600", created.values["rate"])
	assert.Equal(t, "1", created.values["active"])
	assert.Equal(t, created.id, binding.ExternalID)

	_, err = NewExporter(NewImporter(f.env())).Export(ctx, connector.EntityTax, tax.ID)
	require.NoError(t, err)
	assert.Len(t, f.shop.created, 1)
	require.Len(t, f.shop.written, 1)
	assert.Equal(t, binding.ExternalID, f.shop.written[0].id)
}

func TestExporter_SkipsPurchaseTax(t *testing.T) {
	f := newFixture()
	tax := saleTax(nil, "21")
	tax.TypeTaxUse = connector.TaxUsePurchase
	f.store.taxes.put(tax.ID, tax)

	binding, err := NewExporter(NewImporter(f.env())).Export(context.Background(), connector.EntityTax, tax.ID)
	require.NoError(t, err)
	assert.Nil(t, binding)
	assert.Empty(t, f.shop.created)
}

func TestExporter_UnknownEntity(t *testing.T) {
	f := newFixture()
	_, err := NewExporter(NewImporter(f.env())).Export(context.Background(), connector.EntityPartner, uuid.New())
	require.Error(t, err)
	assert.True(t, connector.IsFatal(err))
}

func TestTaxGroupImport_SchedulesUnboundTaxExports(t *testing.T) {
	f := newFixture()
	group := connector.TaxGroup{ID: uuid.New(), CompanyID: testCompanyID, Name: "IVA 21", Active: true}
	f.store.groups.put(group.ID, group)
	unbound := saleTax(&group.ID, "21")
	bound := saleTax(&group.ID, "10")
	purchase := saleTax(&group.ID, "4")
	purchase.TypeTaxUse = connector.TaxUsePurchase
	for _, tax := range []connector.Tax{unbound, bound, purchase} {
		f.store.taxes.put(tax.ID, tax)
	}
	f.store.bind(f.backend.ID, connector.EntityTax, 3, bound.ID)
	f.shop.add(connector.EntityTaxGroup, connector.Record{"id": "9", "name": "IVA 21", "active": "1"})

	env := f.env()
	binding, err := NewImporter(env).Import(context.Background(), connector.EntityTaxGroup, 9, false)
	require.NoError(t, err)
	assert.Equal(t, group.ID, binding.InternalID, "attached to the local group of the same name")
	assert.Len(t, f.store.groups.all(), 1)

	jobs := env.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, connector.JobExportRecord, jobs[0].Name)
	assert.Equal(t, connector.EntityTax, jobs[0].Args.Entity)
	assert.Equal(t, unbound.ID, jobs[0].Args.InternalID)
}
