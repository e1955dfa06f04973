package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FSStore keeps blobs under base/<bucket>/<path> and hands out URLs below
// publicBase, which the /assets route serves.
type FSStore struct {
	base       string
	publicBase string
}

func NewFSStore(base, publicBase string) (*FSStore, error) {
	if base == "" {
		base = "./data"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{base: base, publicBase: strings.TrimSuffix(publicBase, "/")}, nil
}

func (s *FSStore) Upload(_ context.Context, bucket, key string, r io.Reader, _ string) (string, error) {
	dst, err := s.resolve(bucket, key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	_, err = io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return "", err
	}
	return key, nil
}

func (s *FSStore) Get(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	p, err := s.resolve(bucket, key)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

func (s *FSStore) PublicURL(bucket, key string) (string, error) {
	if s.publicBase == "" {
		u := url.URL{Scheme: "file", Path: filepath.Join(s.base, bucket, key)}
		return u.String(), nil
	}
	return s.publicBase + "/" + path.Join(url.PathEscape(bucket), escapePath(key)), nil
}

// resolve keeps every key inside its bucket directory.
func (s *FSStore) resolve(bucket, key string) (string, error) {
	if bucket == "" || key == "" {
		return "", errors.New("empty bucket or key")
	}
	b := filepath.Base(filepath.Clean("/" + bucket))
	k := filepath.Clean("/" + key)
	return filepath.Join(s.base, b, k), nil
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
