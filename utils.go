package backstage

import (
	"github.com/google/uuid"
)

// IsValidID reports whether s is a syntactically valid entity identifier.
// Identifiers on the platform are UUID-shaped.
func IsValidID(s string) bool {
	if s == "" {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
