package webservice

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testKey = "WSKEY123"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/", testKey, Config{Timeout: 2 * time.Second, RetryCount: 1, RetryWaitTime: time.Millisecond}, zap.NewNop())
}

func TestClient_Read(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, testKey, user)
		assert.Empty(t, pass)
		assert.Equal(t, "/api/products/12", r.URL.Path)
		assert.Equal(t, "JSON", r.URL.Query().Get("output_format"))
		_, _ = io.WriteString(w, `{"product":{"id":12,"reference":"REF-1","price":"19.900000",
			"name":[{"id":"1","value":"Shirt"},{"id":"2","value":"Camisa"}]}}`)
	})

	record, err := client.Read(context.Background(), "products", 12)
	require.NoError(t, err)
	assert.Equal(t, int64(12), record.ID())
	assert.Equal(t, "REF-1", record.String("reference"))
	assert.Equal(t, "19.900000", record.String("price"))
	assert.Equal(t, map[int64]string{1: "Shirt", 2: "Camisa"}, record.LanguageValues("name"))
}

func TestClient_ReadNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"errors":[{"code":87,"message":"not found"}]}`)
	})

	_, err := client.Read(context.Background(), "carriers", 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "carriers", apiErr.Resource)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"tax":{"id":"3","rate":"21.000"}}`)
	})

	record, err := client.Read(context.Background(), "taxes", 3)
	require.NoError(t, err)
	assert.Equal(t, "21.000", record.String("rate"))
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_Search(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/api/addresses", r.URL.Path)
		assert.Equal(t, "[id]", q.Get("display"))
		assert.Equal(t, "[7]", q.Get("filter[id_customer]"))
		assert.Equal(t, "0,1000", q.Get("limit"))
		_, _ = io.WriteString(w, `{"addresses":[{"id":4},{"id":"9"}]}`)
	})

	ids, err := client.Search(context.Background(), "addresses", connector.Filters{
		"filter[id_customer]": "[7]",
		"limit":               "0,1000",
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 9}, ids)
}

func TestClient_SearchEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})

	ids, err := client.Search(context.Background(), "products", nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestClient_Create(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/taxes", r.URL.Path)
		assert.Equal(t, "JSON", r.URL.Query().Get("io_format"))

		var body map[string]map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "19.600", body["tax"]["rate"])

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"tax":{"id":"31","rate":"19.600"}}`)
	})

	id, err := client.Create(context.Background(), "taxes", "tax", connector.Record{"rate": "19.600", "active": "1"})
	require.NoError(t, err)
	assert.Equal(t, int64(31), id)
}

func TestClient_CreateWithoutID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"tax":{}}`)
	})

	_, err := client.Create(context.Background(), "taxes", "tax", connector.Record{})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestClient_Write(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/tax_rule_groups/5", r.URL.Path)

		var body map[string]map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "5", body["tax_rule_group"]["id"])
		assert.Equal(t, "IVA", body["tax_rule_group"]["name"])
		_, _ = io.WriteString(w, `{"tax_rule_group":{"id":"5"}}`)
	})

	err := client.Write(context.Background(), "tax_rule_groups", "tax_rule_group", 5, connector.Record{"name": "IVA"})
	require.NoError(t, err)
}

func TestClient_ReadImage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/images/products/12/40", r.URL.Path)
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
	})

	img, err := client.ReadImage(context.Background(), 12, 40)
	require.NoError(t, err)
	assert.Equal(t, "12_40.jpg", img.Name)
	assert.Equal(t, "image/jpeg", img.ContentType)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, img.Content)
}

func TestFactory_For(t *testing.T) {
	f := NewFactory(Config{Timeout: time.Second}, zap.NewNop())
	backend := &connector.Backend{ID: uuid.New(), Name: "shop", URL: "http://shop.test", APIKey: "a"}

	first, err := f.For(backend)
	require.NoError(t, err)
	again, err := f.For(backend)
	require.NoError(t, err)
	assert.Same(t, first, again)

	backend.APIKey = "b"
	rotated, err := f.For(backend)
	require.NoError(t, err)
	assert.NotSame(t, first, rotated)

	_, err = f.For(&connector.Backend{ID: uuid.New()})
	assert.ErrorIs(t, err, ErrNoURL)
}
