package binder

import (
	"fmt"
	"mime"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeTitle rewrites a title into a form safe for use inside an
// object key. Every rune outside [A-Za-z0-9._-] becomes an underscore.
func SanitizeTitle(title string) string {
	return unsafeKeyChars.ReplaceAllString(title, "_")
}

// ObjectKey derives the storage key for an uploaded file. Keys live under
// uploads/ and are prefixed with the creation timestamp in milliseconds so
// re-uploads of the same title never collide.
func ObjectKey(title string, now time.Time) string {
	return fmt.Sprintf("uploads/%d-%s", now.UnixMilli(), SanitizeTitle(title))
}

// ContentTypeForTitle guesses the MIME type of a file from its title's
// extension, falling back to application/octet-stream.
func ContentTypeForTitle(title string) string {
	if ct := mime.TypeByExtension(filepath.Ext(title)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// EscapeLikePattern escapes special LIKE characters (%, _, \) so a title
// substring search cannot be turned into a wildcard query.
func EscapeLikePattern(pattern string) string {
	pattern = strings.ReplaceAll(pattern, `\`, `\\`)
	pattern = strings.ReplaceAll(pattern, `%`, `\%`)
	pattern = strings.ReplaceAll(pattern, `_`, `\_`)
	return pattern
}
