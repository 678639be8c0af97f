package notes

import "github.com/google/uuid"

// idPrefix marks note identifiers.
const idPrefix = "nt-"

// NewID creates a new note ID with "nt-" prefix and a random UUID.
func NewID() string {
	return idPrefix + uuid.NewString()
}
