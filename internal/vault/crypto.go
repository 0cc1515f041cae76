package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 parameters for deriving the vault's symmetric key from a user
// passphrase. 100,000 iterations of PBKDF2-HMAC-SHA256.
const (
	pbkdf2Iterations = 100_000
	keySize          = 32 // AES-256
	saltSize         = 16
)

// sealedBlob is the on-disk / on-wire encrypted vault envelope: a random
// salt (for key derivation), the AES-GCM nonce, and the ciphertext, each
// carried as its own field. The salt travels with the blob because the key
// is derived fresh from the passphrase on every load.
type sealedBlob struct {
	Salt       []byte `json:"salt"`
	IV         []byte `json:"iv"`
	Ciphertext []byte `json:"ciphertext"`
}

func deriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iterations, keySize, sha256.New)
}

// seal encrypts plaintext under a key derived from passphrase, generating a
// fresh random salt and nonce for each call.
func seal(passphrase string, plaintext []byte) (*sealedBlob, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("%w: salt generation: %v", ErrIO, err)
	}

	key := deriveKey(passphrase, salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: cipher init: %v", ErrDecryption, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: gcm init: %v", ErrDecryption, err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("%w: nonce generation: %v", ErrIO, err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)
	return &sealedBlob{Salt: salt, IV: nonce, Ciphertext: ciphertext}, nil
}

// open decrypts a sealedBlob with a key derived from passphrase. A wrong
// passphrase or tampered blob both surface as ErrDecryption so callers
// cannot distinguish "wrong password" from "corrupted file" by error type
// alone, matching AES-GCM's authenticated-decryption guarantee.
func open(passphrase string, blob *sealedBlob) ([]byte, error) {
	key := deriveKey(passphrase, blob.Salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: cipher init: %v", ErrDecryption, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: gcm init: %v", ErrDecryption, err)
	}

	if len(blob.IV) != gcm.NonceSize() {
		return nil, fmt.Errorf("%w: bad iv length %d", ErrDecryption, len(blob.IV))
	}

	plaintext, err := gcm.Open(nil, blob.IV, blob.Ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryption, err)
	}
	return plaintext, nil
}
