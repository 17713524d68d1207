package service

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	tests := []struct {
		name, namespace, file, prefix, suffix string
	}{
		{"whitespace replaced", "blogs", "my  cv final.pdf", "blogs/1700000000123-", "-my_cv_final.pdf"},
		{"empty namespace", "", "a.png", "general/1700000000123-", "-a.png"},
		{"path traversal stripped", "../etc", "../../passwd", "etc/1700000000123-", "-passwd"},
		{"empty name", "jobs_desc", "   ", "jobs_desc/1700000000123-", "-file"},
		{"unicode dropped", "blogs", "résumé.pdf", "blogs/1700000000123-", "-rsum.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := "^" + regexp.QuoteMeta(tt.prefix) + "[0-9a-f]{12}" + regexp.QuoteMeta(tt.suffix) + "$"
			assert.Regexp(t, want, ObjectKey(tt.namespace, tt.file, now))
		})
	}
}

func TestObjectKey_DistinctWithinOneMillisecond(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		key := ObjectKey("blogs", "logo.png", now)
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
	}
}

func TestSanitizeNamespace(t *testing.T) {
	assert.Equal(t, "general", SanitizeNamespace("///"))
	assert.Equal(t, "job_posts", SanitizeNamespace(" job posts "))
}
