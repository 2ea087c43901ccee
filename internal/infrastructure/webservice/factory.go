package webservice

import (
	"errors"
	"sync"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoURL is returned for a backend without a shop URL
var ErrNoURL = errors.New("webservice: backend has no url")

type clientKey struct {
	backendID uuid.UUID
	url       string
	apiKey    string
}

// Factory hands out one client per backend. A client is rebuilt when the
// backend's URL or key changes.
type Factory struct {
	cfg    Config
	logger *zap.Logger

	mu      sync.Mutex
	clients map[uuid.UUID]clientEntry
}

type clientEntry struct {
	key    clientKey
	client *Client
}

// NewFactory creates a client factory
func NewFactory(cfg Config, logger *zap.Logger) *Factory {
	return &Factory{cfg: cfg, logger: logger, clients: make(map[uuid.UUID]clientEntry)}
}

// For returns the client of backend
func (f *Factory) For(backend *connector.Backend) (connector.WebService, error) {
	if backend.URL == "" {
		return nil, ErrNoURL
	}
	key := clientKey{backendID: backend.ID, url: backend.URL, apiKey: backend.APIKey}

	f.mu.Lock()
	defer f.mu.Unlock()
	if entry, ok := f.clients[backend.ID]; ok && entry.key == key {
		return entry.client, nil
	}
	client := NewClient(backend.URL, backend.APIKey, f.cfg, f.logger.With(zap.String("backend", backend.Name)))
	f.clients[backend.ID] = clientEntry{key: key, client: client}
	return client, nil
}

var _ connector.WebServiceFactory = (*Factory)(nil)
