package infra

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/nicoxroll/tecno-car-sub000/internal/config"

	"github.com/bwmarrin/snowflake"
	"github.com/go-resty/resty/v2"
)

// Storage talks to a bucket-based object storage REST API
// (POST/DELETE /storage/v1/object/<bucket>/..., public reads under
// /storage/v1/object/public/<bucket>/...).
type Storage struct {
	http    *resty.Client
	baseURL string
	bucket  string
	node    *snowflake.Node
}

// ErrStorageNotConfigured is returned when no STORAGE_URL was provided.
var ErrStorageNotConfigured = errors.New("storage: not configured")

func NewStorage(cfg *config.Config) (*Storage, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, err
	}
	base := strings.TrimRight(cfg.StorageURL, "/")
	client := resty.New().
		SetBaseURL(base).
		SetTimeout(30*time.Second).
		SetHeader("apikey", cfg.StorageServiceKey).
		SetAuthToken(cfg.StorageServiceKey)
	return &Storage{http: client, baseURL: base, bucket: cfg.StorageBucket, node: node}, nil
}

// NewKey returns a unique object key such as "products/1789234567.webp".
func (s *Storage) NewKey(folder, ext string) string {
	id := s.node.Generate().Int64()
	if folder == "" {
		return fmt.Sprintf("%d.%s", id, ext)
	}
	return fmt.Sprintf("%s/%d.%s", strings.Trim(folder, "/"), id, ext)
}

// Upload stores data under key and returns its public URL.
func (s *Storage) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if s.baseURL == "" {
		return "", ErrStorageNotConfigured
	}
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("Cache-Control", "3600").
		SetHeader("x-upsert", "false").
		SetBody(data).
		Post("/storage/v1/object/" + s.bucket + "/" + key)
	if err != nil {
		return "", fmt.Errorf("storage: upload %s: %w", key, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("storage: upload %s: %s - %s", key, resp.Status(), resp.String())
	}
	return s.PublicURL(key), nil
}

// Delete removes the given object keys. Deleting a missing object is not an error.
func (s *Storage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if s.baseURL == "" {
		return ErrStorageNotConfigured
	}
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string][]string{"prefixes": keys}).
		Delete("/storage/v1/object/" + s.bucket)
	if err != nil {
		return fmt.Errorf("storage: delete: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("storage: delete: %s - %s", resp.Status(), resp.String())
	}
	return nil
}

// PublicURL builds the public read URL of key.
func (s *Storage) PublicURL(key string) string {
	return s.baseURL + "/storage/v1/object/public/" + s.bucket + "/" + key
}

// KeyFromURL extracts the object key from a public URL of this bucket.
func (s *Storage) KeyFromURL(raw string) (string, bool) {
	return ObjectKeyFromURL(raw, s.bucket)
}

// ObjectKeyFromURL locates the "/storage/v1/object/public/<bucket>/" marker
// in the URL path and returns what follows it. It reports false for URLs that
// do not belong to bucket.
func ObjectKeyFromURL(raw, bucket string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Path == "" {
		return "", false
	}
	marker := "/storage/v1/object/public/" + bucket + "/"
	_, key, found := strings.Cut(u.Path, marker)
	if !found || key == "" {
		return "", false
	}
	return key, true
}
