package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SupabaseStore talks to Supabase Storage over its REST API.
type SupabaseStore struct {
	projectURL string
	key        string
	http       *http.Client
}

func NewSupabaseStore(projectURL, serviceKey string, hc *http.Client) (*SupabaseStore, error) {
	if projectURL == "" || serviceKey == "" {
		return nil, errors.New("supabase storage needs SUPABASE_URL and SUPABASE_KEY")
	}
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &SupabaseStore{projectURL: strings.TrimSuffix(projectURL, "/"), key: serviceKey, http: hc}, nil
}

func (s *SupabaseStore) Upload(ctx context.Context, bucket, key string, r io.Reader, contentType string) (string, error) {
	u := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.projectURL, bucket, escapePath(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, r)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("apikey", s.key)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s/%s: %w", bucket, key, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("upload %s/%s: status %d: %s", bucket, key, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return key, nil
}

func (s *SupabaseStore) PublicURL(bucket, key string) (string, error) {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.projectURL, bucket, escapePath(key)), nil
}

func (s *SupabaseStore) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	u := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.projectURL, bucket, escapePath(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("apikey", s.key)
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("get %s/%s: status %d", bucket, key, resp.StatusCode)
	}
	return resp.Body, nil
}
