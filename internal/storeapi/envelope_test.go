package storeapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "ok true", body: `{"ok":true}`},
		{name: "ok true with result", body: `{"ok":true,"result":{"a":1}}`},
		{name: "ok false", body: `{"ok":false}`, wantErr: ErrNotOK},
		{name: "ok missing", body: `{"result":{"a":1}}`, wantErr: ErrNotOK},
		{name: "ok null", body: `{"ok":null}`, wantErr: ErrNotOK},
		{name: "empty body", body: ``, wantErr: ErrNotJSON},
		{name: "malformed json", body: `{"ok":tru`, wantErr: ErrNotJSON},
		{name: "html error page", body: `<html>502 Bad Gateway</html>`, wantErr: ErrNotJSON},
		{name: "bare array", body: `[1,2,3]`, wantErr: ErrNotOK},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := Check([]byte(tc.body))
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestExtractResult(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
		wantErr  error
	}{
		{name: "object result", body: `{"ok":true,"result":{"keys":["a","b"]}}`, expected: `{"keys":["a","b"]}`},
		{name: "string result", body: `{"ok":true,"result":"hello"}`, expected: `"hello"`},
		{name: "null result", body: `{"ok":true,"result":null}`, expected: `null`},
		{name: "number result", body: `{"ok":true,"result":42}`, expected: `42`},
		{name: "missing result", body: `{"ok":true}`, wantErr: ErrNoResult},
		{name: "ok false", body: `{"ok":false,"result":1}`, wantErr: ErrNotOK},
		{name: "not json", body: `oops`, wantErr: ErrNotJSON},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractResult([]byte(tc.body))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, string(got))
		})
	}
}

func TestDecodeResult(t *testing.T) {
	var payload struct {
		Value string `json:"value"`
	}
	err := DecodeResult([]byte(`{"ok":true,"result":{"value":"ok"}}`), &payload)
	require.NoError(t, err)
	assert.Equal(t, "ok", payload.Value)

	var wrongShape []int
	err = DecodeResult([]byte(`{"ok":true,"result":{"value":"ok"}}`), &wrongShape)
	assert.Error(t, err)

	err = DecodeResult([]byte(`{"ok":false}`), &payload)
	assert.ErrorIs(t, err, ErrNotOK)
}
