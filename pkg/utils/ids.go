package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a random UUID string for database rows
func NewID() string {
	return uuid.NewString()
}

// GenerateObjectName creates a short human-readable name for spawned objects.
// Format: {kind}-{8charHexUUID}, e.g. "shuttle-a3f8e2b1".
func GenerateObjectName(kind string) string {
	return kind + "-" + generateShortUUID()
}

// generateShortUUID creates an 8-character hex string from a UUID
func generateShortUUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
