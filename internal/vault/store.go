package vault

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists and loads an encrypted vault document. FileStore covers
// the SDK's normal on-disk case, and MemoryStore covers tests and embedded
// use.
type Store interface {
	Save(passphrase string, doc *Document) error
	Load(passphrase string) (*Document, error)
}

// FileStore persists a vault as a single encrypted JSON file on disk.
type FileStore struct {
	Path string
}

// NewFileStore returns a Store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Save encrypts doc under passphrase and writes it to Path. It writes to a
// temporary file in the same directory first and renames it into place, so
// a crash or concurrent read never observes a partially-written vault.
func (s *FileStore) Save(passphrase string, doc *Document) error {
	plaintext, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("vault: marshal document: %w", err)
	}

	blob, err := seal(passphrase, plaintext)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("vault: marshal sealed blob: %w", err)
	}

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, ".vault-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file in %s: %v", ErrIO, dir, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %v", ErrIO, tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync %s: %v", ErrIO, tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrIO, tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		return fmt.Errorf("%w: chmod %s: %v", ErrIO, tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("%w: rename %s to %s: %v", ErrIO, tmpPath, s.Path, err)
	}
	return nil
}

// Load reads Path, decrypts it under passphrase, and parses the document.
// A missing file is reported as ErrNotFound so callers can distinguish
// "no vault yet" from a real I/O failure.
func (s *FileStore) Load(passphrase string) (*Document, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrIO, s.Path, err)
	}

	var blob sealedBlob
	if err := json.Unmarshal(raw, &blob); err != nil {
		return nil, fmt.Errorf("%w: malformed vault file: %v", ErrDecryption, err)
	}

	plaintext, err := open(passphrase, &blob)
	if err != nil {
		return nil, err
	}

	doc := NewDocument()
	if err := json.Unmarshal(plaintext, doc); err != nil {
		return nil, fmt.Errorf("%w: decode document: %v", ErrDecryption, err)
	}
	return doc, nil
}

// MemoryStore is an in-memory Store, used in tests and by callers that
// manage persistence themselves (e.g. embedding the vault in a larger
// process). It round-trips through the same seal/open path as FileStore so
// tests exercise the real encryption logic.
type MemoryStore struct {
	blob *sealedBlob
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save encrypts doc under passphrase and retains it in memory.
func (s *MemoryStore) Save(passphrase string, doc *Document) error {
	plaintext, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("vault: marshal document: %w", err)
	}
	blob, err := seal(passphrase, plaintext)
	if err != nil {
		return err
	}
	s.blob = blob
	return nil
}

// Load decrypts the retained blob under passphrase.
func (s *MemoryStore) Load(passphrase string) (*Document, error) {
	if s.blob == nil {
		return nil, ErrNotFound
	}
	plaintext, err := open(passphrase, s.blob)
	if err != nil {
		return nil, err
	}
	doc := NewDocument()
	if err := json.Unmarshal(plaintext, doc); err != nil {
		return nil, fmt.Errorf("%w: decode document: %v", ErrDecryption, err)
	}
	return doc, nil
}
