package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveLegacyKey(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"short password padded", "hunter2"},
		{"empty password all padding", ""},
		{"long password truncated", "0123456789012345678901234567890123456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := DeriveLegacyKey(tt.password)
			require.Len(t, key, KeySize)

			want := []byte(tt.password)
			if len(want) > KeySize {
				want = want[:KeySize]
			}
			assert.Equal(t, want, key[:len(want)])
			for _, b := range key[len(want):] {
				assert.EqualValues(t, legacyPadByte, b)
			}
		})
	}
}

func TestDeriveLegacyKey_Deterministic(t *testing.T) {
	assert.Equal(t, DeriveLegacyKey("secret"), DeriveLegacyKey("secret"))
	assert.NotEqual(t, DeriveLegacyKey("secret"), DeriveLegacyKey("secret2"))
}

func TestDeriveArgon2Key_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("0123456789abcdef")

	key1 := DeriveArgon2Key(password, salt)
	key2 := DeriveArgon2Key(password, salt)

	require.Len(t, key1, KeySize)
	assert.Equal(t, key1, key2)
}

func TestDeriveArgon2Key_DifferentSalts(t *testing.T) {
	password := []byte("secret-password")

	key1 := DeriveArgon2Key(password, []byte("salt-1-salt-1-s1"))
	key2 := DeriveArgon2Key(password, []byte("salt-2-salt-2-s2"))

	assert.NotEqual(t, key1, key2)
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveLegacyKey("hunter2")
	plaintext := []byte(`[{"event_type":"email_summary"}]`)

	blob, err := Seal(key, plaintext)
	require.NoError(t, err)
	require.Greater(t, len(blob), NonceSize)

	got, err := Open(key, blob)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestSeal_FreshNoncePerCall(t *testing.T) {
	key := DeriveLegacyKey("hunter2")
	plaintext := []byte("same input")

	blob1, err := Seal(key, plaintext)
	require.NoError(t, err)
	blob2, err := Seal(key, plaintext)
	require.NoError(t, err)

	assert.False(t, bytes.Equal(blob1[:NonceSize], blob2[:NonceSize]))
}

func TestOpen_WrongKeyFails(t *testing.T) {
	blob, err := Seal(DeriveLegacyKey("hunter2"), []byte("payload"))
	require.NoError(t, err)

	_, err = Open(DeriveLegacyKey("wrong"), blob)
	require.Error(t, err)
}

func TestOpen_TamperedCiphertextFails(t *testing.T) {
	key := DeriveLegacyKey("hunter2")
	blob, err := Seal(key, []byte("payload"))
	require.NoError(t, err)

	blob[len(blob)-1] ^= 0xFF

	_, err = Open(key, blob)
	require.Error(t, err)
}

func TestOpen_TooShort(t *testing.T) {
	_, err := Open(DeriveLegacyKey("hunter2"), []byte("abc"))
	require.ErrorIs(t, err, ErrCiphertextTooShort)
}
