package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/zatekoja/localdeals/internal/domain/providers"
)

const emptyFolderPlaceholder = ".emptyFolderPlaceholder"

// Buckets names the buckets images are kept in
type Buckets struct {
	Deals          string
	Profiles       string
	DealerProfiles string
}

// S3ImageStorage lists images in S3 compatible buckets. Deal images live
// under <dealerId>/<dealId>/ and profile images under <accountId>.
type S3ImageStorage struct {
	client    s3iface.S3API
	publicURL string
	buckets   Buckets
}

// NewS3ImageStorage creates a new S3 image storage
func NewS3ImageStorage(client s3iface.S3API, publicURL string, buckets Buckets) providers.ImageStorage {
	return &S3ImageStorage{
		client:    client,
		publicURL: strings.TrimRight(publicURL, "/"),
		buckets:   buckets,
	}
}

// DealImageURLs lists the images of one deal
func (s *S3ImageStorage) DealImageURLs(ctx context.Context, dealerID, dealID string) ([]string, error) {
	if dealerID == "" || dealID == "" {
		return []string{}, nil
	}
	return s.list(ctx, s.buckets.Deals, dealerID+"/"+dealID+"/")
}

// DealerImageURLs lists the images of all deals of a dealer
func (s *S3ImageStorage) DealerImageURLs(ctx context.Context, dealerID string) ([]string, error) {
	if dealerID == "" {
		return []string{}, nil
	}
	return s.list(ctx, s.buckets.Deals, dealerID+"/")
}

// ProfileImageURL returns the first image stored for the account
func (s *S3ImageStorage) ProfileImageURL(ctx context.Context, accountID string, dealer bool) (string, error) {
	bucket := s.buckets.Profiles
	if dealer {
		bucket = s.buckets.DealerProfiles
	}

	urls, err := s.list(ctx, bucket, accountID)
	if err != nil {
		return "", err
	}
	if len(urls) == 0 {
		return "", nil
	}
	return urls[0], nil
}

func (s *S3ImageStorage) list(ctx context.Context, bucket, prefix string) ([]string, error) {
	keys := make([]string, 0)

	err := s.client.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, obj := range page.Contents {
			key := aws.StringValue(obj.Key)
			if strings.HasSuffix(key, "/") || path.Base(key) == emptyFolderPlaceholder {
				continue
			}
			keys = append(keys, key)
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s/%s: %w", bucket, prefix, err)
	}

	sort.Strings(keys)

	urls := make([]string, 0, len(keys))
	for _, key := range keys {
		urls = append(urls, s.objectURL(bucket, key))
	}
	return urls, nil
}

func (s *S3ImageStorage) objectURL(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/%s/%s", s.publicURL, url.PathEscape(bucket), strings.Join(segments, "/"))
}
