package media_storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/itww/admin-api/internal/application/service"
	"github.com/itww/admin-api/internal/config"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrURLExpired       = errors.New("signed url expired")
	ErrInvalidKey       = errors.New("invalid object key")
)

const contentTypeSuffix = ".content-type"

// LocalStore keeps objects on disk and hands out HMAC signed URLs that the
// /files route verifies before streaming.
type LocalStore struct {
	dir     string
	baseURL string
	secret  []byte
	now     func() time.Time
}

func NewLocalStore(cfg config.Config) (*LocalStore, error) {
	lc := cfg.Storage.Local
	if lc.SigningSecret == "" {
		return nil, fmt.Errorf("local storage signing_secret is not configured")
	}
	if err := os.MkdirAll(lc.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("cannot create storage dir: %w", err)
	}
	return &LocalStore{
		dir:     lc.Dir,
		baseURL: strings.TrimRight(lc.BaseURL, "/"),
		secret:  []byte(lc.SigningSecret),
		now:     time.Now,
	}, nil
}

func (s *LocalStore) path(key string) (string, error) {
	if key == "" || strings.HasSuffix(key, contentTypeSuffix) {
		return "", ErrInvalidKey
	}
	p := filepath.Join(s.dir, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.dir, p)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", ErrInvalidKey
	}
	return p, nil
}

func (s *LocalStore) Put(_ context.Context, namespace, originalName string, body io.Reader, _ int64, contentType string) (string, error) {
	key := service.ObjectKey(namespace, originalName, s.now())
	p, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return "", fmt.Errorf("failed to create namespace dir: %w", err)
	}

	f, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return "", fmt.Errorf("failed to create object %s: %w", key, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(p)
		return "", fmt.Errorf("failed to write object %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(p)
		return "", fmt.Errorf("failed to write object %s: %w", key, err)
	}
	if err := os.WriteFile(p+contentTypeSuffix, []byte(contentType), 0o640); err != nil {
		os.Remove(p)
		return "", fmt.Errorf("failed to write object metadata %s: %w", key, err)
	}
	return key, nil
}

func (s *LocalStore) sign(key string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(key))
	mac.Write([]byte{'\n'})
	mac.Write([]byte(strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *LocalStore) SignedReadURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	if _, err := s.path(key); err != nil {
		return "", err
	}
	expires := s.now().Add(ttl).Unix()
	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("signature", s.sign(key, expires))
	return s.baseURL + "/files/" + key + "?" + q.Encode(), nil
}

// Verify checks a signature produced by SignedReadURL.
func (s *LocalStore) Verify(key, expires, signature string) error {
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}
	got, err := hex.DecodeString(signature)
	if err != nil {
		return ErrInvalidSignature
	}
	want, _ := hex.DecodeString(s.sign(key, exp))
	if !hmac.Equal(got, want) {
		return ErrInvalidSignature
	}
	if s.now().Unix() > exp {
		return ErrURLExpired
	}
	return nil
}

// Open returns the object and its recorded content type. The caller closes the file.
func (s *LocalStore) Open(key string) (*os.File, string, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", service.ErrObjectNotFound
		}
		return nil, "", err
	}
	ct, err := os.ReadFile(p + contentTypeSuffix)
	if err != nil || len(ct) == 0 {
		ct = []byte("application/octet-stream")
	}
	return f, string(ct), nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	if err := os.Remove(p + contentTypeSuffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete object metadata %s: %w", key, err)
	}
	return nil
}
