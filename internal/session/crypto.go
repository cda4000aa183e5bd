package session

import (
	"crypto/rand"

	"golang.org/x/crypto/nacl/secretbox"

	domainErrors "readmeforge/internal/errors"
)

const (
	keySize   = 32
	nonceSize = 24
)

// sealToken encrypts an access token with the store key. The random nonce is
// prepended to the box so every row can be opened on its own.
func sealToken(key *[keySize]byte, token string) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, domainErrors.ErrSessionStoreUnavailable.
			WithError(err).
			WithContext("reason", "nonce generation failed")
	}

	return secretbox.Seal(nonce[:], []byte(token), &nonce, key), nil
}

// openToken decrypts a stored token. A box that no longer opens, because the
// secret was rotated or the row was tampered with, counts as an ended
// session rather than a store failure.
func openToken(key *[keySize]byte, box []byte) (string, error) {
	if len(box) <= nonceSize {
		return "", domainErrors.ErrSessionExpired.WithContext("reason", "stored token is malformed")
	}

	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])

	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, key)
	if !ok {
		return "", domainErrors.ErrSessionExpired.WithContext("reason", "stored token failed to decrypt")
	}

	return string(plain), nil
}
