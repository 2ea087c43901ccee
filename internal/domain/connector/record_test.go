package connector

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_Scalars(t *testing.T) {
	r := Record{
		"id":               "12",
		"price":            json.Number("16.510000"),
		"weight":           2.5,
		"id_default_image": map[string]any{"value": "7"},
		"empty":            nil,
	}

	assert.Equal(t, int64(12), r.ID())
	assert.Equal(t, "16.510000", r.String("price"))
	assert.Equal(t, "2.5", r.String("weight"))
	assert.Equal(t, int64(7), r.Int64("id_default_image"))
	assert.Equal(t, "", r.String("empty"))
	assert.Equal(t, int64(0), r.Int64("missing"))
	assert.False(t, r.Has("empty"))
	assert.True(t, r.Has("id"))
}

func TestRecord_Time(t *testing.T) {
	r := Record{"date_add": ZeroDate, "date_upd": "2016-01-02 10:00:00", "birthday": "0000-00-00"}

	_, ok := r.Time("date_add")
	assert.False(t, ok)
	_, ok = r.Time("birthday")
	assert.False(t, ok)

	ts, ok := r.Time("date_upd")
	require.True(t, ok)
	assert.Equal(t, 2016, ts.Year())
	assert.Equal(t, 10, ts.Hour())
}

func TestRecord_Association_NormalizesSingleItem(t *testing.T) {
	single := Record{
		"associations": map[string]any{
			"combinations": map[string]any{
				"combination": map[string]any{"id": "3"},
			},
		},
	}
	list := Record{
		"associations": map[string]any{
			"combinations": map[string]any{
				"combination": []any{
					map[string]any{"id": "3"},
					map[string]any{"id": "4"},
				},
			},
		},
	}

	assert.Equal(t, []int64{3}, single.AssociationIDs("combinations", "combination"))
	assert.Equal(t, []int64{3, 4}, list.AssociationIDs("combinations", "combination"))
}

func TestRecord_Association_JSONShape(t *testing.T) {
	r := Record{
		"associations": map[string]any{
			"images": []any{map[string]any{"id": "1"}, map[string]any{"id": "2"}},
		},
	}
	assert.Equal(t, []int64{1, 2}, r.AssociationIDs("images", "image"))
}

func TestRecord_Association_Missing(t *testing.T) {
	assert.Nil(t, Record{}.Association("images", "image"))
	assert.Nil(t, Record{"associations": map[string]any{"images": ""}}.Association("images", "image"))
	assert.Empty(t, Record{"associations": map[string]any{}}.AssociationIDs("images", "image"))
}

func TestRecord_ForLanguage(t *testing.T) {
	r := Record{
		"id": "1",
		"name": map[string]any{
			"language": []any{
				map[string]any{"attrs": map[string]any{"id": "1"}, "value": "T-shirt"},
				map[string]any{"attrs": map[string]any{"id": "2"}, "value": "Camiseta"},
			},
		},
		"link_rewrite": []any{
			map[string]any{"id": "1", "value": "t-shirt"},
			map[string]any{"id": "2", "value": "camiseta"},
		},
	}

	en := r.ForLanguage(1)
	es := r.ForLanguage(2)

	assert.Equal(t, "T-shirt", en.String("name"))
	assert.Equal(t, "Camiseta", es.String("name"))
	assert.Equal(t, "camiseta", es.String("link_rewrite"))
	assert.Equal(t, "1", es.String("id"))
	assert.Equal(t, "T-shirt", r.String("name"))
	assert.Equal(t, map[int64]string{1: "T-shirt", 2: "Camiseta"}, r.LanguageValues("name"))
}

func TestFilters_Clone(t *testing.T) {
	f := Filters{"filter[id_customer]": "1"}
	c := f.Clone()
	c["limit"] = "0,1000"

	assert.Len(t, f, 1)
	assert.Len(t, c, 2)
}
