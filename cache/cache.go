/*
Package cache memoizes calculation results.

PURPOSE:
  Calculations are pure functions of their input, so a result can be
  served again for an identical request without recomputing. The API
  consults the cache before running a calculator and fills it afterwards.

KEY TYPES:
  Cache:  Get/Set of serialized results
  Redis:  shared cache backed by Redis (go-redis v9)
  Memory: process-local cache with a TTL

KEYS:
  Key(kind, input) canonicalizes the input JSON (sorted object keys, no
  whitespace) and hashes it with xxhash, so that `{"a":1, "b":2}` and
  `{"b":2,"a":1}` share an entry.

FAILURE MODE:
  Cache errors never fail a calculation. Callers log and move on.

SEE ALSO:
  - api/handlers.go: lookup and fill around factory.Run
*/
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Prefix namespaces every key this package produces.
const Prefix = "fincalc:"

// DefaultTTL applies when a non-positive TTL is configured.
const DefaultTTL = 10 * time.Minute

// Cache stores serialized calculation results.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}

// Key returns the cache key for running kind on input.
func Key(kind string, input []byte) (string, error) {
	canon, err := Canonical(input)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s:%016x", Prefix, kind, xxhash.Sum64(canon)), nil
}

// Canonical re-encodes a JSON document with sorted object keys and no
// insignificant whitespace. Numbers keep their literal text.
func Canonical(input []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(input))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("invalid JSON: trailing data")
	}
	return json.Marshal(v)
}

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}
