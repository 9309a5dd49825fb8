package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jsonstore-io/jsonstore_sdk_go/internal/httpx"
	"github.com/jsonstore-io/jsonstore_sdk_go/internal/storeapi"
)

// DefaultBaseURL is the public jsonstore endpoint. The account token is
// appended as the first path segment.
const DefaultBaseURL = "https://www.jsonstore.io"

// DefaultTimeout bounds each request unless overridden with WithTimeout or a
// context deadline. It applies uniformly to all four verbs.
const DefaultTimeout = httpx.DefaultTimeout

const (
	opGet    = "get"
	opPost   = "post"
	opPut    = "put"
	opDelete = "delete"
)

// Option configures the client at construction time.
type Option func(*settings)

type settings struct {
	httpOpts []httpx.Option
}

// WithTimeout overrides the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.httpOpts = append(s.httpOpts, httpx.WithTimeout(d))
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(s *settings) {
		s.httpOpts = append(s.httpOpts, httpx.WithHTTPClient(h))
	}
}

// WithLogger enables debug logging of each outbound request.
func WithLogger(l zerolog.Logger) Option {
	return func(s *settings) {
		s.httpOpts = append(s.httpOpts, httpx.WithLogger(l))
	}
}

// Backend abstracts the transport so the HTTP implementation can be swapped
// for an in-memory mock.
type Backend interface {
	GetRaw(ctx context.Context, key string) ([]byte, error)
	PostRaw(ctx context.Context, key string, raw []byte) error
	PutRaw(ctx context.Context, key string, raw []byte) error
	DeleteRaw(ctx context.Context, key string) error
}

// Client provides access to a token-scoped jsonstore namespace.
type Client struct {
	backend Backend
}

// New constructs a Client for the public service, scoped by the account
// token.
func New(token string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("jsonstore: token is required")
	}
	return NewWithBaseURL(DefaultBaseURL+"/"+url.PathEscape(token), opts...)
}

// NewWithBaseURL constructs a Client against an arbitrary endpoint, token
// segment included. Intended for self-hosted deployments and tests.
func NewWithBaseURL(baseURL string, opts ...Option) (*Client, error) {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	httpOpts := append([]httpx.Option{httpx.WithHeaders(defaultHeaders())}, s.httpOpts...)
	cl, err := httpx.NewClient(baseURL, httpOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "jsonstore: init HTTP client")
	}
	return &Client{backend: &httpBackend{client: cl}}, nil
}

// NewWithBackend allows callers to supply a custom backend (e.g. mocks).
func NewWithBackend(b Backend) *Client {
	return &Client{backend: b}
}

func defaultHeaders() http.Header {
	return http.Header{
		"Accept":       []string{"application/json"},
		"Content-Type": []string{"application/json"},
	}
}

// Get retrieves the document stored under key and decodes it into T.
func Get[T any](ctx context.Context, client *Client, key string) (T, error) {
	var value T
	data, err := client.GetJSON(ctx, key)
	if err != nil {
		return value, err
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, storeErr(opGet, key, errors.Wrap(err, "decode stored value"))
	}
	return value, nil
}

// Post stores value under key, encoded as JSON.
func Post[T any](ctx context.Context, client *Client, key string, value T) error {
	raw, err := httpx.JSONMarshal(value)
	if err != nil {
		return storeErr(opPost, key, errors.Wrap(err, "encode value"))
	}
	return client.PostJSON(ctx, key, raw)
}

// Put replaces the document stored under key with value, encoded as JSON.
func Put[T any](ctx context.Context, client *Client, key string, value T) error {
	raw, err := httpx.JSONMarshal(value)
	if err != nil {
		return storeErr(opPut, key, errors.Wrap(err, "encode value"))
	}
	return client.PutJSON(ctx, key, raw)
}

// GetJSON fetches the raw JSON document stored under key.
func (c *Client) GetJSON(ctx context.Context, key string) ([]byte, error) {
	if err := c.check(key); err != nil {
		return nil, storeErr(opGet, key, err)
	}
	data, err := c.backend.GetRaw(ctx, key)
	if err != nil {
		if errors.Is(err, storeapi.ErrNoResult) {
			err = ErrKeyNotFound
		}
		return nil, storeErr(opGet, key, err)
	}
	return data, nil
}

// PostJSON stores a pre-encoded JSON document under key.
func (c *Client) PostJSON(ctx context.Context, key string, raw []byte) error {
	if err := c.check(key); err != nil {
		return storeErr(opPost, key, err)
	}
	return storeErr(opPost, key, c.backend.PostRaw(ctx, key, raw))
}

// PutJSON replaces the document under key with a pre-encoded JSON payload.
func (c *Client) PutJSON(ctx context.Context, key string, raw []byte) error {
	if err := c.check(key); err != nil {
		return storeErr(opPut, key, err)
	}
	return storeErr(opPut, key, c.backend.PutRaw(ctx, key, raw))
}

// Delete removes the document stored under key.
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.check(key); err != nil {
		return storeErr(opDelete, key, err)
	}
	return storeErr(opDelete, key, c.backend.DeleteRaw(ctx, key))
}

func (c *Client) check(key string) error {
	if c == nil || c.backend == nil {
		return errors.New("client is not initialised")
	}
	if strings.TrimSpace(key) == "" {
		return ErrKeyRequired
	}
	return nil
}

type httpBackend struct {
	client *httpx.Client
}

func (b *httpBackend) GetRaw(ctx context.Context, key string) ([]byte, error) {
	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: http.MethodGet,
		Path:   key,
	})
	if err != nil {
		return nil, err
	}
	body, err := httpx.ReadAllAndClose(resp.Body)
	if err != nil {
		return nil, err
	}
	return storeapi.ExtractResult(body)
}

func (b *httpBackend) PostRaw(ctx context.Context, key string, raw []byte) error {
	return b.write(ctx, http.MethodPost, key, raw)
}

func (b *httpBackend) PutRaw(ctx context.Context, key string, raw []byte) error {
	return b.write(ctx, http.MethodPut, key, raw)
}

func (b *httpBackend) DeleteRaw(ctx context.Context, key string) error {
	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: http.MethodDelete,
		Path:   key,
	})
	if err != nil {
		return err
	}
	body, err := httpx.ReadAllAndClose(resp.Body)
	if err != nil {
		return err
	}
	return storeapi.Check(body)
}

func (b *httpBackend) write(ctx context.Context, method, key string, raw []byte) error {
	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: method,
		Path:   key,
		Body:   bytes.NewReader(raw),
	})
	if err != nil {
		return err
	}
	body, err := httpx.ReadAllAndClose(resp.Body)
	if err != nil {
		return err
	}
	return storeapi.Check(body)
}
