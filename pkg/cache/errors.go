package cache

import "errors"

var (
	// ErrNotSerializable indicates the value cannot be serialized for storage.
	ErrNotSerializable = errors.New("cache.value_not_serializable")
)
