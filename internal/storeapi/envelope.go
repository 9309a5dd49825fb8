// Package storeapi handles the JSON envelope returned by the jsonstore
// service. Every response is an object of the form
// {"ok": <bool>, "result": <value>}; the result field is only present on
// reads of existing keys.
package storeapi

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

var (
	// ErrNotJSON indicates the response body could not be parsed as JSON.
	ErrNotJSON = errors.New("storeapi: response body is not valid JSON")
	// ErrNotOK indicates the envelope is missing a truthy ok flag.
	ErrNotOK = errors.New("storeapi: service did not acknowledge the call")
	// ErrNoResult indicates a read envelope without a result field.
	ErrNoResult = errors.New("storeapi: response envelope carries no result")
)

// Check validates that body is a JSON envelope acknowledging success.
// The ok flag must be present and truthy regardless of HTTP status.
func Check(body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !gjson.ValidBytes(trimmed) {
		return ErrNotJSON
	}
	ok := gjson.GetBytes(trimmed, "ok")
	if !ok.Exists() || !ok.Bool() {
		return ErrNotOK
	}
	return nil
}

// ExtractResult validates the envelope and returns the raw JSON stored under
// the result field.
func ExtractResult(body []byte) ([]byte, error) {
	if err := Check(body); err != nil {
		return nil, err
	}
	res := gjson.GetBytes(bytes.TrimSpace(body), "result")
	if !res.Exists() {
		return nil, ErrNoResult
	}
	return []byte(res.Raw), nil
}

// DecodeResult extracts the result payload and decodes it into out.
func DecodeResult(body []byte, out any) error {
	payload, err := ExtractResult(body)
	if err != nil {
		return err
	}
	if len(payload) == 0 {
		payload = []byte("null")
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return errors.Wrap(err, "storeapi: decode result")
	}
	return nil
}
