package connector

import (
	"context"
	"errors"
	"testing"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addLocalTemplate(f *fixture, code string, variantCodes ...string) connector.ProductTemplate {
	tmpl := connector.ProductTemplate{ID: uuid.New(), CompanyID: testCompanyID, Name: code, DefaultCode: code, Active: true}
	f.store.templates.put(tmpl.ID, tmpl)
	for _, vc := range variantCodes {
		v := connector.ProductVariant{ID: uuid.New(), TemplateID: tmpl.ID, CompanyID: testCompanyID, DefaultCode: vc, Active: true}
		f.store.variants.put(v.ID, v)
	}
	return tmpl
}

func combinationRecord(id, productID int64, reference string) connector.Record {
	return connector.Record{
		"id": id, "id_product": productID, "reference": reference, "default_on": "0",
		"price": "0", "wholesale_price": "0", "weight": "0",
	}
}

func TestIdentityResolver_WithoutCombinations(t *testing.T) {
	f := newFixture()
	f.backend.MatchingProductTemplate = true
	bound := addLocalTemplate(f, "REF")
	free := addLocalTemplate(f, "REF")
	f.store.bind(f.backend.ID, connector.EntityProductTemplate, 77, bound.ID)

	resolver := NewIdentityResolver(f.env())
	id, ok, err := resolver.ResolveTemplate(context.Background(), product(1, map[string]any{"reference": "REF"}))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, free.ID, id, "bound templates are never matched")

	_, ok, err = resolver.ResolveTemplate(context.Background(), product(1, map[string]any{"reference": "OTHER"}))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIdentityResolver_ByBarcode(t *testing.T) {
	f := newFixture()
	f.backend.MatchingProductCh = connector.MatchingByBarcode
	tmpl := addLocalTemplate(f, "X")
	tmpl.Barcode = "4006381333931"
	f.store.templates.put(tmpl.ID, tmpl)

	id, ok, err := NewIdentityResolver(f.env()).ResolveTemplate(context.Background(),
		product(1, map[string]any{"barcode": "0", "ean13": "4006381333931"}))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, tmpl.ID, id)
}

func TestIdentityResolver_CombinationsAmbiguous(t *testing.T) {
	f := newFixture()
	addLocalTemplate(f, "T1", "A")
	addLocalTemplate(f, "T2", "B")
	f.shop.add(connector.EntityProductCombination, combinationRecord(51, 5, "A"))
	f.shop.add(connector.EntityProductCombination, combinationRecord(52, 5, "B"))
	record := product(5, map[string]any{"associations": map[string]any{"combinations": ids(51, 52)}})

	_, _, err := NewIdentityResolver(f.env()).ResolveTemplate(context.Background(), record)
	require.Error(t, err)
	assert.True(t, connector.IsFatal(err))
	assert.True(t, errors.Is(err, connector.ErrAmbiguousMatch))
}

func TestIdentityResolver_CombinationsSingleTemplate(t *testing.T) {
	f := newFixture()
	t1 := addLocalTemplate(f, "T1", "A", "B")
	f.shop.add(connector.EntityProductCombination, combinationRecord(51, 5, "A"))
	f.shop.add(connector.EntityProductCombination, combinationRecord(52, 5, "B"))
	f.shop.add(connector.EntityProductCombination, combinationRecord(53, 5, ""))
	record := product(5, map[string]any{"associations": map[string]any{"combinations": ids(51, 52, 53)}})

	id, ok, err := NewIdentityResolver(f.env()).ResolveTemplate(context.Background(), record)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, t1.ID, id)
}

func TestImporter_AttachesToMatchedTemplate(t *testing.T) {
	f := newFixture()
	f.backend.MatchingProductTemplate = true
	t1 := addLocalTemplate(f, "T1", "A")
	f.shop.add(connector.EntityProductCombination, combinationRecord(51, 5, "A"))
	f.shop.add(connector.EntityProductTemplate, product(5, map[string]any{
		"id_default_combination": "51",
		"associations":           map[string]any{"combinations": ids(51)},
	}))

	binding, err := NewImporter(f.env()).Import(context.Background(), connector.EntityProductTemplate, 5, false)
	require.NoError(t, err)
	assert.Equal(t, t1.ID, binding.InternalID)
	assert.Len(t, f.store.templates.all(), 1, "matched template is not re-created")

	combination, ok := f.store.binding(connector.EntityProductCombination, 51)
	require.True(t, ok)
	variants, err := f.store.Variants().ListByTemplate(context.Background(), t1.ID)
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, variants[0].ID, combination.InternalID)
	assert.Equal(t, "A", variants[0].DefaultCode)
}

func TestLookup_CodeExistsIgnoresBoundTemplates(t *testing.T) {
	f := newFixture()
	tmpl := addLocalTemplate(f, "A")
	env := f.env()
	l := &lookup{env: env, resolver: NewIdentityResolver(env)}
	ctx := context.Background()

	exists, err := l.TemplateCodeExists(ctx, "A")
	require.NoError(t, err)
	assert.True(t, exists)

	f.store.bind(f.backend.ID, connector.EntityProductTemplate, 1, tmpl.ID)
	exists, err = l.TemplateCodeExists(ctx, "A")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = l.TemplateCodeExists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestImporter_CodeSuffixWithBarcodeMatching(t *testing.T) {
	f := newFixture()
	f.backend.MatchingProductCh = connector.MatchingByBarcode
	addLocalTemplate(f, "A")
	addLocalTemplate(f, "A_1")
	f.shop.add(connector.EntityProductTemplate, product(8, map[string]any{"reference": "A"}))

	binding, err := NewImporter(f.env()).Import(context.Background(), connector.EntityProductTemplate, 8, false)
	require.NoError(t, err)
	tmpl, err := f.store.templates.get(binding.InternalID)
	require.NoError(t, err)
	assert.Equal(t, "A_2", tmpl.DefaultCode)
}
