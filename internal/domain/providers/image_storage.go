package providers

import "context"

// ImageStorage resolves public URLs of images kept in object storage
type ImageStorage interface {
	// DealImageURLs lists the images of one deal
	DealImageURLs(ctx context.Context, dealerID, dealID string) ([]string, error)

	// DealerImageURLs lists the images of all deals of a dealer
	DealerImageURLs(ctx context.Context, dealerID string) ([]string, error)

	// ProfileImageURL returns the profile image of an account, or "" if none
	ProfileImageURL(ctx context.Context, accountID string, dealer bool) (string, error)
}
