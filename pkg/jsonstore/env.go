package jsonstore

import (
	"net/url"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/jsonstore-io/jsonstore_sdk_go/internal/devseed"
)

const (
	envMode     = "JSONSTORE_RUNTIME_MODE"
	envToken    = "JSONSTORE_TOKEN"
	envBaseURL  = "JSONSTORE_BASE_URL"
	envMockSeed = "JSONSTORE_MOCK_SEED"

	modeAuto = "auto"
	modeHTTP = "http"
	modeMock = "mock"
)

// NewFromEnv initialises a Client based on JSONSTORE_* environment variables
// and returns the resolved mode ("http" or "mock"). In auto mode (the
// default) a set JSONSTORE_TOKEN selects HTTP, otherwise an in-memory mock is
// used, optionally seeded from JSONSTORE_MOCK_SEED.
func NewFromEnv(opts ...Option) (client *Client, mode string, err error) {
	mode = strings.ToLower(strings.TrimSpace(os.Getenv(envMode)))
	token := strings.TrimSpace(os.Getenv(envToken))

	switch mode {
	case "", modeAuto:
		if token != "" {
			return newEnvHTTPClient(token, opts)
		}
		return newEnvMockClient()
	case modeHTTP:
		if token == "" {
			return nil, "", errors.Errorf("jsonstore: HTTP mode requires %s", envToken)
		}
		return newEnvHTTPClient(token, opts)
	case modeMock:
		return newEnvMockClient()
	default:
		return nil, "", errors.Errorf("jsonstore: unsupported %s value %q", envMode, mode)
	}
}

func newEnvHTTPClient(token string, opts []Option) (*Client, string, error) {
	var (
		client *Client
		err    error
	)
	if base := strings.TrimSpace(os.Getenv(envBaseURL)); base != "" {
		client, err = NewWithBaseURL(strings.TrimSuffix(base, "/")+"/"+url.PathEscape(token), opts...)
	} else {
		client, err = New(token, opts...)
	}
	if err != nil {
		return nil, "", errors.Wrap(err, "jsonstore: init HTTP client from env")
	}
	return client, modeHTTP, nil
}

func newEnvMockClient() (*Client, string, error) {
	store := newMockStore()
	if path := strings.TrimSpace(os.Getenv(envMockSeed)); path != "" {
		entries, err := devseed.LoadSeed(path)
		if err != nil {
			return nil, "", errors.Wrap(err, "jsonstore: load mock seed")
		}
		if err := store.seed(entries); err != nil {
			return nil, "", errors.Wrap(err, "jsonstore: apply mock seed")
		}
	}
	return NewWithBackend(&mockBackend{store: store}), modeMock, nil
}
