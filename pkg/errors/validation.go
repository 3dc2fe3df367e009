package errors

import (
	"strings"
	"unicode"
)

// maxModuleIDLength bounds identifiers accepted from files and API requests.
const maxModuleIDLength = 512

// ValidateModuleID checks that a module identifier is usable as a graph key.
// Identifiers are opaque and compared by exact string identity, so only
// structurally unusable values are rejected:
//   - Empty identifiers
//   - Identifiers longer than 512 bytes
//   - Control characters (including null bytes and newlines)
//   - Leading or trailing whitespace
func ValidateModuleID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidModule, "module identifier cannot be empty")
	}
	if len(id) > maxModuleIDLength {
		return New(ErrCodeInvalidModule, "module identifier too long (max %d characters)", maxModuleIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidModule, "module identifier contains invalid control characters")
		}
	}
	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidModule, "module identifier %q has surrounding whitespace", id)
	}
	return nil
}

// ValidateEndpoints validates the importer/imported pair of a chain query.
// Both identifiers must be valid and distinct: a chain from a module to
// itself has no import edge to report.
func ValidateEndpoints(importer, imported string) error {
	if err := ValidateModuleID(importer); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "importer")
	}
	if err := ValidateModuleID(imported); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "imported")
	}
	if importer == imported {
		return New(ErrCodeInvalidInput, "importer and imported must differ (both %q)", importer)
	}
	return nil
}
