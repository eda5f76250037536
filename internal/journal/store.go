package journal

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/quillworks/localagent/internal/common"
	"github.com/quillworks/localagent/internal/cryptox"
	"github.com/quillworks/localagent/internal/filex"
)

// KDF selects how the file key is derived from the password.
type KDF string

const (
	// KDFLegacy pads/truncates the password to the key length. Byte
	// compatible with journal files written by earlier versions. No salt,
	// no iteration count; single-user local-file threat model only.
	KDFLegacy KDF = "legacy"
	// KDFArgon2 derives the key with argon2id and a random per-file salt
	// stored in the file header. Not compatible with legacy files on write;
	// reads auto-detect either format.
	KDFArgon2 KDF = "argon2"
)

// magicV2 prefixes journal files written with KDFArgon2. Legacy files start
// with a random GCM nonce, so a collision with the magic is negligible.
var magicV2 = []byte("LAJ2")

// Store owns a single encrypted journal file. Every mutation rewrites the
// whole file: "append" decrypts and re-encrypts the entire history. That is
// the file contract, and it holds at personal-log scale.
//
// Operations are serialized by an internal lock, which protects concurrent
// use within one process. Two processes sharing one file remain unguarded;
// multi-process deployments can supply an advisory file lock via WithLocker.
type Store struct {
	path string
	kdf  KDF
	mu   sync.Locker
}

// Option configures a Store.
type Option func(*Store)

// WithLocker replaces the default in-process mutex with a caller-supplied
// lock, e.g. an advisory file lock for multi-process use.
func WithLocker(l sync.Locker) Option {
	return func(s *Store) { s.mu = l }
}

// NewStore creates a store for the journal file at path. An empty kdf
// selects KDFLegacy. The file itself is not touched until the first save.
func NewStore(path string, kdf KDF, opts ...Option) (*Store, error) {
	switch kdf {
	case "":
		kdf = KDFLegacy
	case KDFLegacy, KDFArgon2:
	default:
		return nil, fmt.Errorf("unknown kdf %q", kdf)
	}

	path, err := filex.ExpandHome(path)
	if err != nil {
		return nil, fmt.Errorf("resolve journal path: %w", err)
	}

	s := &Store{path: path, kdf: kdf, mu: &sync.Mutex{}}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the journal file location.
func (s *Store) Path() string { return s.path }

// Load decrypts and returns the full ordered history.
//
// A missing file is the first-run path and yields an empty history with no
// error. Decryption or authentication failure yields
// common.ErrIncorrectPasswordOrCorrupted; a wrong password and tampered
// ciphertext are indistinguishable. Malformed plaintext degrades to an empty
// or partial history, never an error.
func (s *Store) Load(password string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(password)
}

func (s *Store) load(password string) ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read journal %s: %w", s.path, err)
	}

	var key, blob []byte
	if bytes.HasPrefix(data, magicV2) && len(data) >= len(magicV2)+cryptox.SaltSize {
		salt := data[len(magicV2) : len(magicV2)+cryptox.SaltSize]
		key = cryptox.DeriveArgon2Key([]byte(password), salt)
		blob = data[len(magicV2)+cryptox.SaltSize:]
	} else {
		key = cryptox.DeriveLegacyKey(password)
		blob = data
	}

	plaintext, err := cryptox.Open(key, blob)
	if err != nil {
		return nil, common.ErrIncorrectPasswordOrCorrupted
	}

	return decodeEntries(plaintext), nil
}

// Save serializes the full ordered sequence, encrypts it with the
// password-derived key and atomically overwrites the journal file.
func (s *Store) Save(entries []Entry, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(entries, password)
}

func (s *Store) save(entries []Entry, password string) error {
	plaintext, err := encodeEntries(entries)
	if err != nil {
		return fmt.Errorf("encode journal: %w", err)
	}

	var key []byte
	var header []byte
	if s.kdf == KDFArgon2 {
		salt, err := cryptox.NewSalt()
		if err != nil {
			return fmt.Errorf("generate salt: %w", err)
		}
		key = cryptox.DeriveArgon2Key([]byte(password), salt)
		header = append(append([]byte{}, magicV2...), salt...)
	} else {
		key = cryptox.DeriveLegacyKey(password)
	}

	blob, err := cryptox.Seal(key, plaintext)
	if err != nil {
		return fmt.Errorf("encrypt journal: %w", err)
	}

	if err := filex.WriteFileAtomic(s.path, append(header, blob...), 0o600); err != nil {
		return fmt.Errorf("write journal %s: %w", s.path, err)
	}
	return nil
}

// Append adds one entry to the end of the history and rewrites the file.
// Equivalent to Load + push + Save under one lock acquisition. Pre-existing
// entries are never reordered or dropped.
func (s *Store) Append(entry Entry, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(password)
	if err != nil {
		return err
	}
	return s.save(append(entries, entry), password)
}

// DeleteByIndex removes the entry at the given unfiltered index and persists
// the result. An index outside [0, len) fails with common.ErrInvalidIndex and
// leaves the file unmodified.
func (s *Store) DeleteByIndex(index int, password string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(password)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(entries) {
		return nil, common.ErrInvalidIndex
	}

	entries = append(entries[:index], entries[index+1:]...)
	if err := s.save(entries, password); err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteByID removes the entry with the given stable ID. Entries written by
// older versions have no ID and can only be removed by index. Unknown IDs
// fail with common.ErrEntryNotFound and leave the file unmodified.
func (s *Store) DeleteByID(id string, password string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(password)
	if err != nil {
		return nil, err
	}

	index := -1
	for i, e := range entries {
		if e.ID != "" && e.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, common.ErrEntryNotFound
	}

	entries = append(entries[:index], entries[index+1:]...)
	if err := s.save(entries, password); err != nil {
		return nil, err
	}
	return entries, nil
}
