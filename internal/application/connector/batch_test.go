package connector

import (
	"context"
	"errors"
	"testing"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBatchImporter_SearchFirstPage(t *testing.T) {
	f := newFixture()
	f.shop.search["products"] = []int64{3, 1, 2}

	found, err := NewBatchImporter(f.shop, 0, nil).Search(context.Background(), connector.EntityProductTemplate, connector.Filters{"filter[active]": "1"})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, found)

	require.Len(t, f.shop.queries, 1)
	assert.Equal(t, connector.Filters{"filter[active]": "1", "limit": "0,1000"}, f.shop.queries[0])
}

func TestBatchImporter_SearchPages(t *testing.T) {
	ws := new(mockWebService)
	page := func(limit string) connector.Filters { return connector.Filters{"limit": limit} }
	ws.On("Search", mock.Anything, "customers", page("0,2")).Return([]int64{1, 2}, nil).Once()
	ws.On("Search", mock.Anything, "customers", page("2,2")).Return([]int64{3, 4}, nil).Once()
	ws.On("Search", mock.Anything, "customers", page("4,2")).Return([]int64{5}, nil).Once()

	found, err := NewBatchImporter(ws, 2, nil).Search(context.Background(), connector.EntityPartner, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, found)
	ws.AssertExpectations(t)
}

func TestBatchImporter_SearchErrorStopsPaging(t *testing.T) {
	ws := new(mockWebService)
	ws.On("Search", mock.Anything, "customers", connector.Filters{"limit": "0,2"}).Return([]int64{1, 2}, nil).Once()
	ws.On("Search", mock.Anything, "customers", connector.Filters{"limit": "2,2"}).Return(nil, errors.New("503 service unavailable")).Once()

	found, err := NewBatchImporter(ws, 2, nil).Search(context.Background(), connector.EntityPartner, nil)
	require.Error(t, err)
	assert.Nil(t, found)
	assert.Contains(t, err.Error(), "search customers")
	ws.AssertExpectations(t)
	ws.AssertNumberOfCalls(t, "Search", 2)
}

func TestBatchImporter_ExplicitLimit(t *testing.T) {
	f := newFixture()
	f.shop.search["customers"] = []int64{1, 2, 3, 4, 5}

	found, err := NewBatchImporter(f.shop, 2, nil).Search(context.Background(), connector.EntityPartner, connector.Filters{"limit": "3"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, found)
	assert.Len(t, f.shop.queries, 1)
}

func TestBatchImporter_TaxGroupsExcludeDeleted(t *testing.T) {
	f := newFixture()
	f.shop.search["tax_rule_groups"] = []int64{1}

	_, err := NewBatchImporter(f.shop, 0, nil).Search(context.Background(), connector.EntityTaxGroup, nil)
	require.NoError(t, err)
	require.Len(t, f.shop.queries, 1)
	assert.Equal(t, "0", f.shop.queries[0]["filter[deleted]"])
}

func TestBatchImporter_DelaySchedulesOneJobPerRecord(t *testing.T) {
	f := newFixture()
	f.shop.search["carriers"] = []int64{7, 8}
	env := f.env()

	n, err := NewBatchImporter(f.shop, 0, nil).Delay(context.Background(), env, connector.EntityCarrier, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	jobs := env.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, connector.JobImportRecord, jobs[0].Name)
	assert.Equal(t, int64(7), jobs[0].Args.ExternalID)
	assert.Equal(t, int64(8), jobs[1].Args.ExternalID)
	assert.Equal(t, connector.EntityCarrier, jobs[1].Args.Entity)
}
