package service

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrObjectNotFound is returned by ObjectStore implementations for reads of a missing key.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is durable binary storage with time-limited read access.
type ObjectStore interface {
	// Put writes body under a fresh key derived from namespace and originalName and returns that key.
	Put(ctx context.Context, namespace, originalName string, body io.Reader, size int64, contentType string) (string, error)
	// SignedReadURL mints an unauthenticated read URL for key valid for roughly ttl.
	SignedReadURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	// Delete removes key. A key that is already gone is not an error.
	Delete(ctx context.Context, key string) error
}

const (
	DefaultNamespace = "general"
	keyNonceLen      = 12
)

var (
	whitespace    = regexp.MustCompile(`\s+`)
	unsafeKeyChar = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

// SanitizeNamespace keeps namespaces a single safe path segment.
func SanitizeNamespace(ns string) string {
	ns = unsafeKeyChar.ReplaceAllString(whitespace.ReplaceAllString(strings.TrimSpace(ns), "_"), "")
	ns = strings.Trim(ns, ".")
	if ns == "" {
		return DefaultNamespace
	}
	return ns
}

func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = whitespace.ReplaceAllString(name, "_")
	name = unsafeKeyChar.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, ".")
	if name == "" {
		return "file"
	}
	return name
}

// ObjectKey builds "<namespace>/<unix millis>-<nonce>-<name>" with whitespace in
// name replaced by underscores. The nonce keeps two uploads of the same name in
// the same millisecond on distinct keys.
func ObjectKey(namespace, originalName string, now time.Time) string {
	nonce := strings.ReplaceAll(uuid.NewString(), "-", "")[:keyNonceLen]
	return SanitizeNamespace(namespace) + "/" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + nonce + "-" + sanitizeFileName(originalName)
}
