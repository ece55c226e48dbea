package codec

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// derivedKeySize is the length of keys produced from passphrases.
	derivedKeySize = 32

	// saltInfo provides domain separation for HKDF derivation.
	saltInfo = "gatekit-codec-v1"
)

// defaultKey returns the built-in obfuscation key used when the caller does
// not configure one. Shipping a default key is intentional: the codec is an
// inspection deterrent, and a zero-config default beats callers disabling
// obfuscation entirely.
func defaultKey() []byte {
	return deriveKey("gatekit-default-obfuscation-key")
}

// deriveKey stretches a passphrase into a fixed-size key with HKDF-SHA256.
func deriveKey(passphrase string) []byte {
	reader := hkdf.New(sha256.New, []byte(passphrase), nil, []byte(saltInfo))
	key := make([]byte, derivedKeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		// HKDF over SHA-256 cannot fail for these sizes.
		panic("codec: key derivation failed: " + err.Error())
	}
	return key
}
