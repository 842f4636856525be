package storage

import (
	"context"

	"github.com/zatekoja/localdeals/internal/domain/providers"
)

// NoopImageStorage is used when no object storage is configured
type NoopImageStorage struct{}

// NewNoopImageStorage creates an image storage without images
func NewNoopImageStorage() providers.ImageStorage {
	return NoopImageStorage{}
}

func (NoopImageStorage) DealImageURLs(context.Context, string, string) ([]string, error) {
	return []string{}, nil
}

func (NoopImageStorage) DealerImageURLs(context.Context, string) ([]string, error) {
	return []string{}, nil
}

func (NoopImageStorage) ProfileImageURL(context.Context, string, bool) (string, error) {
	return "", nil
}
