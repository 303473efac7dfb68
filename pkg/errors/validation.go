package errors

import (
	"strings"
	"unicode"
)

// ValidateNodeID validates a node identity read from a document.
// It rejects identities that could break lookups or corrupt saved files.
//
// The validation rules are intentionally conservative:
//   - No empty identities
//   - No control characters
//   - No null bytes
//   - Maximum length of 128 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNode, "node id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidNode, "node id too long (max 128 characters)")
	}

	for _, r := range id {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidNode, "node id contains invalid control characters")
		}
	}

	return nil
}

// ValidateTitle validates a node title. Titles are single-line display
// strings; empty titles are allowed.
func ValidateTitle(title string) error {
	if len(title) > 512 {
		return New(ErrCodeInvalidNode, "title too long (max 512 characters)")
	}

	for _, r := range title {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNode, "title cannot contain control characters")
		}
	}

	return nil
}

// ValidateDocumentPath validates a document file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidateDocumentPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "document path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "document path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "document path contains invalid characters")
		}
	}

	return nil
}

// exportFormats are the renderings the export pipeline supports.
var exportFormats = []string{"svg", "png", "dot", "json"}

// ValidateExportFormat validates an export format name.
func ValidateExportFormat(format string) error {
	for _, f := range exportFormats {
		if format == f {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unknown export format %q (supported: %s)",
		format, strings.Join(exportFormats, ", "))
}
