// Package cryptox implements key derivation and authenticated encryption for
// the journal file. All encryption uses AES-256-GCM, so a wrong password and
// a tampered ciphertext are indistinguishable to callers.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the AES-256 key length.
	KeySize = 32
	// NonceSize is the GCM nonce length prepended to every sealed blob.
	NonceSize = 12
	// SaltSize is the random salt length stored in argon2-format files.
	SaltSize = 16
)

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// legacyPadByte matches the original file format: the password is padded with
// ASCII '0' bytes up to the key size.
const legacyPadByte = '0'

// DeriveLegacyKey derives a 32-byte key by padding or truncating the UTF-8
// password bytes. This is a placeholder KDF (no salt, no iteration count) kept
// for byte compatibility with existing journal files. It is acceptable only
// for a single-user local-file threat model.
func DeriveLegacyKey(password string) []byte {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = legacyPadByte
	}
	copy(key, []byte(password))
	return key
}

// DeriveArgon2Key derives a 32-byte key from the password and salt using
// argon2id. Used by the v2 journal format, which stores the salt in the file.
func DeriveArgon2Key(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}

// NewSalt returns a fresh random salt for the argon2 format.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext with the given key. A new random nonce is generated
// for each call and prepended to the returned blob.
func Seal(key, plaintext []byte) ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a blob produced by Seal. Authentication failure (wrong key or
// tampered data) returns an error; callers map it to their own taxonomy.
func Open(key, blob []byte) ([]byte, error) {
	if len(blob) < NonceSize {
		return nil, ErrCiphertextTooShort
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	return aesgcm.Open(nil, blob[:NonceSize], blob[NonceSize:], nil)
}
