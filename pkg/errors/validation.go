package errors

import (
	"strconv"
	"strings"
	"unicode"
)

// Messages returned by the analysis service for malformed requests.
const (
	MsgMissingBookID = "Missing book_id"
	MsgBookIDNotInt  = "Book ID must be an integer"
)

// ParseBookID validates a Project Gutenberg book identifier and returns its
// numeric value.
//
// Leading and trailing whitespace is ignored. The id must be a base-10
// integer; signs are accepted as strconv.Atoi does, so "-3" parses and is
// left for the book source to reject as not found.
func ParseBookID(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, New(ErrCodeInvalidBookID, MsgMissingBookID)
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, New(ErrCodeInvalidBookID, MsgBookIDNotInt)
	}
	return id, nil
}

// ValidateCharacterID rejects character ids that cannot be rendered as DOT
// node names or terminal labels: control characters and null bytes.
// Empty ids are allowed; they are legal join keys.
func ValidateCharacterID(id string) error {
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "character id %q contains control characters", id)
		}
	}
	return nil
}

// ValidatePath validates an output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
