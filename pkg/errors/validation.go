package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateFieldName validates a record field name used as an id or parent key.
//
// The rules are conservative:
//   - No empty names
//   - Maximum length of 64 characters
//   - Letters, digits, underscore, dash and dot only
func ValidateFieldName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidField, "field name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidField, "field name too long (max 64 characters)")
	}
	if !fieldNameRegex.MatchString(name) {
		return New(ErrCodeInvalidField, "invalid field name: %q", name)
	}
	return nil
}

var fieldNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// ValidateNodeURI validates a glossary node URI.
// URIs are opaque tokens; they must not contain path separators because they
// are joined into materialized paths.
func ValidateNodeURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidURI, "node URI cannot be empty")
	}
	if len(uri) > 128 {
		return New(ErrCodeInvalidURI, "node URI too long (max 128 characters)")
	}
	for _, r := range uri {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidURI, "node URI contains invalid characters")
		}
	}
	if strings.ContainsAny(uri, "/\\") {
		return New(ErrCodeInvalidURI, "node URI cannot contain path separators: %q", uri)
	}
	return nil
}

// ValidatePath validates a materialized glossary path such as "/g1/c1/t1".
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - Must be absolute (start with /)
//   - Every segment must be a valid node URI
//
// The root path "/" is accepted.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	if !strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be absolute (start with /)")
	}
	if path == "/" {
		return nil
	}

	for _, seg := range strings.Split(path[1:], "/") {
		if seg == "." || seg == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain traversal segments")
		}
		if err := ValidateNodeURI(seg); err != nil {
			return Wrap(ErrCodeInvalidPath, err, "invalid segment in path %q", path)
		}
	}
	return nil
}

// ValidateURL checks that rawURL uses one of schemes, or http/https when
// none are given.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if len(schemes) == 0 {
		schemes = []string{"http", "https"}
	}
	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use one of the schemes: %s", strings.Join(schemes, ", "))
}
