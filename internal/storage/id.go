package storage

import (
	"fmt"

	"github.com/google/uuid"
)

// FileSuffix is the fixed suffix of every entry file. Files without it
// are ignored entirely, so the directory can host unrelated files.
const FileSuffix = ".dat"

// NewFileID generates a fresh file identifier: a UUIDv7 plus [FileSuffix].
// Callers rely only on uniqueness within the directory, never on the
// embedded timestamp.
func NewFileID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("storage: generate uuidv7: %w", err)
	}

	return id.String() + FileSuffix, nil
}
