package jsonstore_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonstore-io/jsonstore_sdk_go/pkg/jsonstore"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JSONSTORE_RUNTIME_MODE", "")
	t.Setenv("JSONSTORE_TOKEN", "")
	t.Setenv("JSONSTORE_BASE_URL", "")
	t.Setenv("JSONSTORE_MOCK_SEED", "")
}

func TestNewFromEnvHTTP(t *testing.T) {
	clearEnv(t)

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"ok":true,"result":{"count":9}}`)
	}))
	defer srv.Close()

	t.Setenv("JSONSTORE_TOKEN", "envtoken")
	t.Setenv("JSONSTORE_BASE_URL", srv.URL)

	client, mode, err := jsonstore.NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "http", mode)

	got, err := jsonstore.Get[counter](context.Background(), client, "jobs/1")
	require.NoError(t, err)
	assert.Equal(t, 9, got.Count)
	assert.Equal(t, "/envtoken/jobs/1", gotPath)
}

func TestNewFromEnvAutoFallsBackToMock(t *testing.T) {
	clearEnv(t)

	client, mode, err := jsonstore.NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "mock", mode)

	ctx := context.Background()
	require.NoError(t, jsonstore.Post(ctx, client, "k", counter{Count: 3}))
	got, err := jsonstore.Get[counter](ctx, client, "k")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Count)
}

func TestNewFromEnvMockRoundtrip(t *testing.T) {
	clearEnv(t)
	t.Setenv("JSONSTORE_RUNTIME_MODE", "mock")

	client, mode, err := jsonstore.NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "mock", mode)

	ctx := context.Background()
	require.NoError(t, jsonstore.Post(ctx, client, "jobs/1", counter{Count: 1}))
	require.NoError(t, jsonstore.Put(ctx, client, "jobs/1", counter{Count: 2}))

	got, err := jsonstore.Get[counter](ctx, client, "jobs/1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Count)

	require.NoError(t, client.Delete(ctx, "jobs/1"))
	_, err = jsonstore.Get[counter](ctx, client, "jobs/1")
	assert.ErrorIs(t, err, jsonstore.ErrKeyNotFound)

	var storeErr *jsonstore.StoreError
	assert.True(t, errors.As(err, &storeErr))
}

func TestNewFromEnvMockSeed(t *testing.T) {
	clearEnv(t)
	seedPath := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(seedPath, []byte(`[{"key":"jobs/1","value":{"count":5}}]`), 0o600))

	t.Setenv("JSONSTORE_RUNTIME_MODE", "mock")
	t.Setenv("JSONSTORE_MOCK_SEED", seedPath)

	client, mode, err := jsonstore.NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "mock", mode)

	got, err := jsonstore.Get[counter](context.Background(), client, "jobs/1")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Count)
}

func TestNewFromEnvHTTPRequiresToken(t *testing.T) {
	clearEnv(t)
	t.Setenv("JSONSTORE_RUNTIME_MODE", "http")

	_, _, err := jsonstore.NewFromEnv()
	assert.Error(t, err)
}

func TestNewFromEnvUnsupportedMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("JSONSTORE_RUNTIME_MODE", "carrier-pigeon")

	_, _, err := jsonstore.NewFromEnv()
	assert.Error(t, err)
}

func TestNewFromEnvBadSeed(t *testing.T) {
	clearEnv(t)
	t.Setenv("JSONSTORE_RUNTIME_MODE", "mock")
	t.Setenv("JSONSTORE_MOCK_SEED", filepath.Join(t.TempDir(), "absent.json"))

	_, _, err := jsonstore.NewFromEnv()
	assert.Error(t, err)
}
