// Package codec provides reversible obfuscation for values persisted to
// local storage.
//
// Values are serialized to JSON, XOR-ed against a repeating key and wrapped
// in base64 so the result is safe to store as text. Decoding is total: any
// malformed payload or key mismatch yields ok=false rather than an error,
// so callers uniformly degrade to a cache miss.
//
// # Not Encryption
//
// The codec deters casual inspection of cached data on disk. It makes no
// confidentiality guarantees: the key ships with the binary and the scheme
// is trivially reversible. Use a real encryption library for secrets.
//
// # Usage
//
//	c := codec.New(codec.WithPassphrase("app-local-key"))
//
//	encoded, err := codec.EncodeValue(c, profile)
//	profile, ok := codec.DecodeValue[Profile](c, encoded)
package codec
