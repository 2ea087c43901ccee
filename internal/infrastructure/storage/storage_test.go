package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/binovo/connector-prestashop/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type s3Request struct {
	method      string
	path        string
	contentType string
	body        []byte
}

func fakeS3(t *testing.T, status map[string]int) (*httptest.Server, func() []s3Request) {
	t.Helper()
	var mu sync.Mutex
	var requests []s3Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, s3Request{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			body:        body,
		})
		mu.Unlock()
		if code, ok := status[r.Method]; ok {
			w.WriteHeader(code)
			return
		}
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, func() []s3Request {
		mu.Lock()
		defer mu.Unlock()
		return append([]s3Request(nil), requests...)
	}
}

func s3Config(endpoint string) config.StorageConfig {
	return config.StorageConfig{
		Driver:          config.StorageDriverS3,
		Bucket:          "images",
		Region:          "eu-west-1",
		Endpoint:        endpoint,
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		UsePathStyle:    true,
	}
}

func TestS3ImageStore_Put(t *testing.T) {
	server, requests := fakeS3(t, nil)
	store, err := NewS3ImageStore(context.Background(), s3Config(server.URL), zap.NewNop())
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "shop/12/40 front.jpg", []byte{1, 2, 3}, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/images/shop/12/40%20front.jpg", url)

	got := requests()
	require.Len(t, got, 1)
	assert.Equal(t, http.MethodPut, got[0].method)
	assert.Equal(t, "/images/shop/12/40 front.jpg", got[0].path)
	assert.Equal(t, "image/jpeg", got[0].contentType)
	assert.Equal(t, []byte{1, 2, 3}, got[0].body)
}

func TestS3ImageStore_PutRequiresKey(t *testing.T) {
	server, _ := fakeS3(t, nil)
	store, err := NewS3ImageStore(context.Background(), s3Config(server.URL), zap.NewNop())
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "", nil, "")
	assert.Error(t, err)
}

func TestS3ImageStore_EnsureBucketExisting(t *testing.T) {
	server, requests := fakeS3(t, nil)
	store, err := NewS3ImageStore(context.Background(), s3Config(server.URL), zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, store.EnsureBucket(context.Background()))
	got := requests()
	require.Len(t, got, 1)
	assert.Equal(t, http.MethodHead, got[0].method)
}

func TestS3ImageStore_EnsureBucketCreates(t *testing.T) {
	server, requests := fakeS3(t, map[string]int{http.MethodHead: http.StatusNotFound})
	store, err := NewS3ImageStore(context.Background(), s3Config(server.URL), zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, store.EnsureBucket(context.Background()))
	got := requests()
	require.Len(t, got, 2)
	assert.Equal(t, http.MethodPut, got[1].method)
	assert.Equal(t, "/images", got[1].path)
}

func TestNewS3ImageStore_Validation(t *testing.T) {
	_, err := NewS3ImageStore(context.Background(), config.StorageConfig{}, zap.NewNop())
	assert.ErrorContains(t, err, "bucket is required")

	cfg := s3Config("://bad")
	_, err = NewS3ImageStore(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestPublicBase(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
		want string
	}{
		{"public url wins", config.StorageConfig{Bucket: "b", PublicURL: "https://cdn.example.com/"}, "https://cdn.example.com"},
		{"aws", config.StorageConfig{Bucket: "b"}, "https://b.s3.eu-west-1.amazonaws.com"},
		{"path style", config.StorageConfig{Bucket: "b", Endpoint: "http://minio:9000", UsePathStyle: true}, "http://minio:9000/b"},
		{"virtual host", config.StorageConfig{Bucket: "b", Endpoint: "https://s3.example.com"}, "https://b.s3.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := publicBase(tt.cfg, "eu-west-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMemoryImageStore(t *testing.T) {
	store := NewMemoryImageStore()
	content := []byte("png")

	url, err := store.Put(context.Background(), "a/b.png", content, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "memory://a/b.png", url)

	content[0] = 'x'
	img, ok := store.Get("a/b.png")
	require.True(t, ok)
	assert.Equal(t, []byte("png"), img.Content)
	assert.Equal(t, "image/png", img.ContentType)

	_, err = store.Put(context.Background(), "", nil, "")
	assert.Error(t, err)
}

func TestNew_Drivers(t *testing.T) {
	store, err := New(context.Background(), config.StorageConfig{Driver: config.StorageDriverMemory}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryImageStore{}, store)

	server, _ := fakeS3(t, nil)
	store, err = New(context.Background(), s3Config(server.URL), zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &S3ImageStore{}, store)

	_, err = New(context.Background(), config.StorageConfig{Driver: "ftp"}, zap.NewNop())
	assert.Error(t, err)
}
