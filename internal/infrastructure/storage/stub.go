package storage

import (
	"context"
	"net/url"
	"strings"
	"time"

	commerceapp "github.com/agrifarma/backend/internal/application/commerce"
)

// DefaultStubBaseURL is used when StubObjectStorage.BaseURL is empty.
const DefaultStubBaseURL = "http://localhost:8080/uploads"

// StubObjectStorage hands out unsigned URLs when storage.enabled is false,
// so the product image flow can be exercised without an S3 server.
type StubObjectStorage struct {
	BaseURL string
	TTL     time.Duration
}

// NewStubObjectStorage creates a stub rooted at DefaultStubBaseURL.
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{BaseURL: DefaultStubBaseURL, TTL: 15 * time.Minute}
}

var _ commerceapp.ImageStorage = (*StubObjectStorage)(nil)

// GenerateUploadURL returns BaseURL/key with the expiry as a query parameter.
func (s *StubObjectStorage) GenerateUploadURL(_ context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	return s.url(storageKey, expiresIn, url.Values{"content_type": {contentType}})
}

// GenerateDownloadURL returns BaseURL/key with the expiry as a query parameter.
func (s *StubObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return s.url(storageKey, expiresIn, url.Values{})
}

func (s *StubObjectStorage) url(storageKey string, expiresIn time.Duration, query url.Values) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errEmptyKey
	}
	if expiresIn <= 0 {
		expiresIn = s.TTL
	}
	base := s.BaseURL
	if base == "" {
		base = DefaultStubBaseURL
	}

	expiresAt := time.Now().Add(expiresIn)
	query.Set("expires", expiresAt.UTC().Format(time.RFC3339))
	return strings.TrimRight(base, "/") + "/" + storageKey + "?" + query.Encode(), expiresAt, nil
}
