// Package devseed loads JSON seed files used to pre-populate the in-memory
// mock store and the local sandbox.
package devseed

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// SeedEntry is a single key/value pair from a seed file. The file itself is
// a JSON array of these entries.
type SeedEntry struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// LoadSeed reads and validates a seed file.
func LoadSeed(path string) ([]SeedEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "devseed: read seed file %s", path)
	}

	var entries []SeedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrapf(err, "devseed: parse seed file %s", path)
	}

	for i, e := range entries {
		if strings.TrimSpace(e.Key) == "" {
			return nil, errors.Errorf("devseed: seed entry %d is missing a key", i)
		}
	}
	return entries, nil
}
