package common

import (
	"encoding/json"
	"time"
)

// CacheInterface defines the contract for cache implementations
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(key string, value interface{}, duration time.Duration)

	// Get retrieves a value from cache by key
	// Returns the value and true if found, nil and false otherwise
	Get(key string) (interface{}, bool)

	// Delete removes a value from cache by key
	Delete(key string)

	// DeletePrefix removes every key starting with prefix
	DeletePrefix(prefix string)

	// GetOrSet retrieves a value from cache, or loads it using the loader function if not found
	GetOrSet(key string, duration time.Duration, loader func() (any, error)) (interface{}, error)

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}

// GetOrSetTyped is GetOrSet for a concrete type. The in-memory cache hands
// back the stored value as is; Redis hands back decoded JSON, which is
// converted to T through a JSON round trip.
func GetOrSetTyped[T any](c CacheInterface, key string, duration time.Duration, loader func() (T, error)) (T, error) {
	var zero T

	val, err := c.GetOrSet(key, duration, func() (any, error) {
		return loader()
	})
	if err != nil {
		return zero, err
	}
	if typed, ok := val.(T); ok {
		return typed, nil
	}
	if typed, err := convertJSON[T](val); err == nil {
		return typed, nil
	}

	// undecodable entry, replace it
	fresh, err := loader()
	if err != nil {
		return zero, err
	}
	c.Set(key, fresh, duration)
	return fresh, nil
}

func convertJSON[T any](val interface{}) (T, error) {
	var out T
	raw, err := json.Marshal(val)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(raw, &out)
	return out, err
}
