package vault

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// ExportEncrypted serializes and seals doc under passphrase, returning a
// portable base64 string (for backups or transfer between devices)
// independent of any particular Store backend.
func ExportEncrypted(passphrase string, doc *Document) (string, error) {
	plaintext, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("vault: marshal document: %w", err)
	}
	blob, err := seal(passphrase, plaintext)
	if err != nil {
		return "", err
	}
	encoded, err := json.Marshal(blob)
	if err != nil {
		return "", fmt.Errorf("vault: marshal sealed blob: %w", err)
	}
	return base64.StdEncoding.EncodeToString(encoded), nil
}

// ImportEncrypted is the inverse of ExportEncrypted.
func ImportEncrypted(passphrase, exported string) (*Document, error) {
	encoded, err := base64.StdEncoding.DecodeString(exported)
	if err != nil {
		return nil, fmt.Errorf("vault: malformed export payload: %w", err)
	}

	var blob sealedBlob
	if err := json.Unmarshal(encoded, &blob); err != nil {
		return nil, fmt.Errorf("%w: malformed export payload: %v", ErrDecryption, err)
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
