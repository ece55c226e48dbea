package codec

import (
	"encoding/json"
	"errors"
)

// EncodeValue serializes v to canonical JSON and obfuscates the result.
func EncodeValue[T any](c *Codec, v T) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", errors.Join(ErrMarshalFailed, err)
	}
	return c.Encode(string(data)), nil
}

// DecodeValue reverses EncodeValue. Like Decode, it reports failure via
// ok=false instead of an error, so callers fall back to a cache miss.
func DecodeValue[T any](c *Codec, encoded string) (T, bool) {
	var v T

	plaintext, ok := c.Decode(encoded)
	if !ok {
		return v, false
	}

	if err := json.Unmarshal([]byte(plaintext), &v); err != nil {
		c.logger.Debug("codec: decoded payload is not valid JSON", "error", err)
		return v, false
	}

	return v, true
}
