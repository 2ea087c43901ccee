package webservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/domain/shared"
	"github.com/binovo/connector-prestashop/internal/infrastructure/telemetry"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Config holds the client settings
type Config struct {
	Timeout       time.Duration
	RetryCount    int
	RetryWaitTime time.Duration
	Debug         bool
}

// ErrMalformedResponse is returned when the shop answers with an
// unexpected payload
var ErrMalformedResponse = errors.New("webservice: malformed response")

// APIError is a non-2xx answer of the shop
type APIError struct {
	Method     string
	Resource   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("webservice: %s %s returned %d: %s", e.Method, e.Resource, e.StatusCode, e.Body)
}

// Unwrap maps 404 to shared.ErrNotFound
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return shared.ErrNotFound
	}
	return nil
}

// Client talks to one shop through the PrestaShop JSON web service. The API
// key is sent as the basic auth user.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient creates a client for the shop at baseURL
func NewClient(baseURL, apiKey string, cfg Config, logger *zap.Logger) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")+"/api").
		SetBasicAuth(apiKey, "").
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWaitTime).
		SetDebug(cfg.Debug).
		SetHeader("Accept", "application/json").
		SetQueryParam("output_format", "JSON").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
	return &Client{http: rc, logger: logger}
}

// Read fetches one record
func (c *Client) Read(ctx context.Context, resource string, id int64) (connector.Record, error) {
	ctx, span := telemetry.StartSpan(ctx, "webservice.read",
		telemetry.WithAttribute(telemetry.SpanAttrResource, resource),
		telemetry.WithAttribute(telemetry.SpanAttrExternalID, id),
	)
	defer span.End()

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"resource": resource, "id": strconv.FormatInt(id, 10)}).
		Get("/{resource}/{id}")
	if err = c.check(resp, err, resource); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	envelope, err := decode(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("read %s %d: %w", resource, id, err)
	}
	for _, v := range envelope {
		if m, ok := v.(map[string]any); ok {
			return connector.Record(m), nil
		}
	}
	return nil, fmt.Errorf("read %s %d: %w", resource, id, ErrMalformedResponse)
}

// Search returns the ids of the records matching filters
func (c *Client) Search(ctx context.Context, resource string, filters connector.Filters) ([]int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "webservice.search",
		telemetry.WithAttribute(telemetry.SpanAttrResource, resource),
	)
	defer span.End()

	req := c.http.R().
		SetContext(ctx).
		SetPathParam("resource", resource).
		SetQueryParam("display", "[id]")
	for k, v := range filters {
		req.SetQueryParam(k, v)
	}
	resp, err := req.Get("/{resource}")
	if err = c.check(resp, err, resource); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	ids, err := searchIDs(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", resource, err)
	}
	c.logger.Debug("Searched records",
		zap.String("resource", resource),
		zap.Any("filters", filters),
		zap.Int("count", len(ids)),
	)
	return ids, nil
}

// Create creates a record and returns its remote id
func (c *Client) Create(ctx context.Context, resource, node string, values connector.Record) (int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "webservice.create",
		telemetry.WithAttribute(telemetry.SpanAttrResource, resource),
	)
	defer span.End()

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("resource", resource).
		SetQueryParam("io_format", "JSON").
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{node: values}).
		Post("/{resource}")
	if err = c.check(resp, err, resource); err != nil {
		telemetry.RecordError(span, err)
		return 0, err
	}
	envelope, err := decode(resp.Body())
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", resource, err)
	}
	created := connector.Record(envelope).Map(node)
	if created == nil || created.ID() == 0 {
		return 0, fmt.Errorf("create %s: %w: no id", resource, ErrMalformedResponse)
	}
	return created.ID(), nil
}

// Write updates a record
func (c *Client) Write(ctx context.Context, resource, node string, id int64, values connector.Record) error {
	ctx, span := telemetry.StartSpan(ctx, "webservice.write",
		telemetry.WithAttribute(telemetry.SpanAttrResource, resource),
		telemetry.WithAttribute(telemetry.SpanAttrExternalID, id),
	)
	defer span.End()

	body := make(connector.Record, len(values)+1)
	for k, v := range values {
		body[k] = v
	}
	body["id"] = strconv.FormatInt(id, 10)

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"resource": resource, "id": strconv.FormatInt(id, 10)}).
		SetQueryParam("io_format", "JSON").
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{node: body}).
		Put("/{resource}/{id}")
	if err = c.check(resp, err, resource); err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	return nil
}

// ReadImage downloads a product image
func (c *Client) ReadImage(ctx context.Context, productID, imageID int64) (*connector.RemoteImage, error) {
	ctx, span := telemetry.StartSpan(ctx, "webservice.read_image",
		telemetry.WithAttribute(telemetry.SpanAttrResource, "images"),
		telemetry.WithAttribute(telemetry.SpanAttrExternalID, imageID),
	)
	defer span.End()

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"product": strconv.FormatInt(productID, 10),
			"image":   strconv.FormatInt(imageID, 10),
		}).
		SetHeader("Accept", "*/*").
		Get("/images/products/{product}/{image}")
	if err = c.check(resp, err, "images"); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(resp.Body())
	}
	return &connector.RemoteImage{
		Name:        fmt.Sprintf("%d_%d%s", productID, imageID, extension(contentType)),
		ContentType: contentType,
		Content:     resp.Body(),
	}, nil
}

func (c *Client) check(resp *resty.Response, err error, resource string) error {
	if err != nil {
		return fmt.Errorf("webservice %s: %w", resource, err)
	}
	if resp.IsError() {
		body := strings.TrimSpace(string(resp.Body()))
		if len(body) > 512 {
			body = body[:512]
		}
		return &APIError{
			Method:     resp.Request.Method,
			Resource:   resource,
			StatusCode: resp.StatusCode(),
			Body:       body,
		}
	}
	return nil
}

// decode parses a JSON object keeping numbers as json.Number
func decode(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return out, nil
}

// searchIDs reads {"<resources>": [{"id": 1}, ...]}. An empty result is
// sent as [].
func searchIDs(body []byte) ([]int64, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("[]")) {
		return []int64{}, nil
	}
	envelope, err := decode(trimmed)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0)
	for _, v := range envelope {
		list, ok := v.([]any)
		if !ok {
			continue
		}
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				if id := connector.Record(m).ID(); id > 0 {
					ids = append(ids, id)
				}
			}
		}
	}
	return ids, nil
}

func extension(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}

var _ connector.WebService = (*Client)(nil)
