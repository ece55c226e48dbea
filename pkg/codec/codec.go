package codec

import (
	"encoding/base64"
	"log/slog"
	"strings"
)

// magic is prepended to the plaintext before obfuscation. Its presence
// after decoding proves the payload was produced with the same key, so a
// key mismatch degrades to a miss instead of returning garbage.
const magic = "gk1:"

// Codec obfuscates values before they hit the local store.
//
// This is a deterrent against casual inspection of on-disk data, NOT a
// cryptographic security boundary: the XOR stream with a repeating key is
// trivially reversible by anyone with the binary. Do not store data here
// that needs real confidentiality.
type Codec struct {
	key    []byte
	logger *slog.Logger
}

// Option configures a Codec.
type Option func(*Codec)

// WithKey sets the obfuscation key. Empty keys are ignored.
func WithKey(key []byte) Option {
	return func(c *Codec) {
		if len(key) > 0 {
			c.key = key
		}
	}
}

// WithPassphrase derives the obfuscation key from a passphrase.
func WithPassphrase(passphrase string) Option {
	return func(c *Codec) {
		if passphrase != "" {
			c.key = deriveKey(passphrase)
		}
	}
}

// WithLogger sets the logger used to report decode failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Codec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Codec with the built-in default key unless overridden.
func New(opts ...Option) *Codec {
	c := &Codec{
		key:    defaultKey(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encode obfuscates plaintext into a text-safe string.
func (c *Codec) Encode(plaintext string) string {
	data := []byte(magic + plaintext)
	c.xor(data)
	return base64.StdEncoding.EncodeToString(data)
}

// Decode reverses Encode. It never fails outward: malformed input or a key
// mismatch returns ok=false so callers treat the entry as a cache miss.
func (c *Codec) Decode(encoded string) (string, bool) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		c.logger.Debug("codec: payload is not valid base64", "error", err)
		return "", false
	}

	c.xor(data)
	decoded := string(data)
	if !strings.HasPrefix(decoded, magic) {
		c.logger.Debug("codec: payload marker missing, wrong key or corrupted data")
		return "", false
	}

	return decoded[len(magic):], true
}

// xor applies the repeating-key XOR stream in place. It is its own inverse.
func (c *Codec) xor(data []byte) {
	for i := range data {
		data[i] ^= c.key[i%len(c.key)]
	}
}
