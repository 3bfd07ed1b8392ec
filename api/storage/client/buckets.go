package client

import (
	"context"
	"net/http"
	"time"
)

// Bucket is a named container of objects.
type Bucket struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Public           bool      `json:"public"`
	FileSizeLimit    int64     `json:"file_size_limit,omitempty"`
	AllowedMimeTypes []string  `json:"allowed_mime_types,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type bucketOptions struct {
	public           bool
	fileSizeLimit    int64
	allowedMimeTypes []string
}

// BucketOption controls bucket creation and updates.
type BucketOption func(*bucketOptions)

// WithPublic toggles anonymous read access to the bucket's objects.
func WithPublic(public bool) BucketOption {
	return func(args *bucketOptions) {
		args.public = public
	}
}

// WithFileSizeLimit caps the size in bytes of objects accepted by the
// bucket. Zero means no limit.
func WithFileSizeLimit(limit int64) BucketOption {
	return func(args *bucketOptions) {
		args.fileSizeLimit = limit
	}
}

// WithAllowedMimeTypes restricts the content types accepted by the bucket.
func WithAllowedMimeTypes(types ...string) BucketOption {
	return func(args *bucketOptions) {
		args.allowedMimeTypes = types
	}
}

type bucketRequest struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Public           bool     `json:"public"`
	FileSizeLimit    int64    `json:"file_size_limit,omitempty"`
	AllowedMimeTypes []string `json:"allowed_mime_types,omitempty"`
}

// ListBuckets returns all buckets.
func (c *Client) ListBuckets(ctx context.Context) ([]Bucket, error) {
	var bucks []Bucket
	if err := c.doJSON(ctx, http.MethodGet, c.apiURL("bucket"), nil, &bucks); err != nil {
		return nil, err
	}
	return bucks, nil
}

// CreateBucket creates a bucket. Visibility defaults to private.
func (c *Client) CreateBucket(ctx context.Context, name string, opts ...BucketOption) (*Bucket, error) {
	args := &bucketOptions{}
	for _, opt := range opts {
		opt(args)
	}
	req := bucketRequest{
		ID:               name,
		Name:             name,
		Public:           args.public,
		FileSizeLimit:    args.fileSizeLimit,
		AllowedMimeTypes: args.allowedMimeTypes,
	}
	var buck Bucket
	if err := c.doJSON(ctx, http.MethodPost, c.apiURL("bucket"), req, &buck); err != nil {
		return nil, err
	}
	return &buck, nil
}

// GetBucket returns a single bucket by name.
func (c *Client) GetBucket(ctx context.Context, name string) (*Bucket, error) {
	var buck Bucket
	if err := c.doJSON(ctx, http.MethodGet, c.apiURL("bucket", name), nil, &buck); err != nil {
		return nil, err
	}
	return &buck, nil
}

// UpdateBucket updates a bucket. Visibility must always be supplied; it is
// not defaulted here the way CreateBucket defaults it.
func (c *Client) UpdateBucket(ctx context.Context, name string, public bool, opts ...BucketOption) (*Bucket, error) {
	args := &bucketOptions{public: public}
	for _, opt := range opts {
		opt(args)
	}
	req := bucketRequest{
		ID:               name,
		Name:             name,
		Public:           args.public,
		FileSizeLimit:    args.fileSizeLimit,
		AllowedMimeTypes: args.allowedMimeTypes,
	}
	var buck Bucket
	if err := c.doJSON(ctx, http.MethodPut, c.apiURL("bucket", name), req, &buck); err != nil {
		return nil, err
	}
	return &buck, nil
}

// EmptyBucket removes all objects from a bucket.
func (c *Client) EmptyBucket(ctx context.Context, name string) error {
	return c.doJSON(ctx, http.MethodPost, c.apiURL("bucket", name, "empty"), nil, nil)
}

// DeleteBucket deletes a bucket. The service rejects deletion of non-empty
// buckets.
func (c *Client) DeleteBucket(ctx context.Context, name string) error {
	return c.doJSON(ctx, http.MethodDelete, c.apiURL("bucket", name), nil, nil)
}
