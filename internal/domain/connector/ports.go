package connector

import "context"

// RemoteImage is binary image content downloaded from the shop
type RemoteImage struct {
	Name        string
	ContentType string
	Content     []byte
}

// WebService is the narrow view the connector has of one shop's API.
// Transport errors are returned unchanged so the job queue can retry them.
type WebService interface {
	Read(ctx context.Context, resource string, id int64) (Record, error)
	Search(ctx context.Context, resource string, filters Filters) ([]int64, error)
	Create(ctx context.Context, resource, node string, values Record) (int64, error)
	Write(ctx context.Context, resource, node string, id int64, values Record) error
	ReadImage(ctx context.Context, productID, imageID int64) (*RemoteImage, error)
}

// WebServiceFactory opens a web-service client for a backend
type WebServiceFactory interface {
	For(backend *Backend) (WebService, error)
}

// ImageStore keeps image binaries outside the database
type ImageStore interface {
	// Put stores content under key and returns its public URL
	Put(ctx context.Context, key string, content []byte, contentType string) (string, error)
}
