package binder_test

import (
	"testing"
	"time"

	"github.com/binderhq/binder"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"plain filename unchanged", "report.pdf", "report.pdf"},
		{"spaces replaced", "q1 report.pdf", "q1_report.pdf"},
		{"path separators replaced", "a/b\\c.txt", "a_b_c.txt"},
		{"unicode replaced", "résumé.docx", "r_sum_.docx"},
		{"allowed punctuation kept", "a-b_c.d", "a-b_c.d"},
		{"everything unsafe", "???", "___"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, binder.SanitizeTitle(tt.title))
		})
	}
}

func TestObjectKey(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	key := binder.ObjectKey("Q1 report.pdf", now)
	assert.Equal(t, "uploads/1700000000000-Q1_report.pdf", key)
}

func TestContentTypeForTitle(t *testing.T) {
	assert.Equal(t, "application/pdf", binder.ContentTypeForTitle("Q1.pdf"))
	assert.Equal(t, "application/octet-stream", binder.ContentTypeForTitle("no-extension"))
	assert.Equal(t, "application/octet-stream", binder.ContentTypeForTitle("weird.zzz"))
}

func TestEscapeLikePattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    string
	}{
		{"no special chars", "report", "report"},
		{"percent escaped", "100%", `100\%`},
		{"underscore escaped", "a_b", `a\_b`},
		{"backslash escaped", `a\b`, `a\\b`},
		{"combined", `a\%_`, `a\\\%\_`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, binder.EscapeLikePattern(tt.pattern))
		})
	}
}
