package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// DefaultListLimit is the page size used when listing objects without an
// explicit limit.
const DefaultListLimit = 100

// Object is a stored byte blob with its metadata.
type Object struct {
	Name           string    `json:"name"`
	ID             string    `json:"id,omitempty"`
	BucketID       string    `json:"bucket_id,omitempty"`
	Size           int64     `json:"size"`
	ContentType    string    `json:"content_type,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	LastAccessedAt time.Time `json:"last_accessed_at,omitempty"`
}

type uploadOptions struct {
	upsert      bool
	contentType string
}

// UploadOption controls object uploads and updates.
type UploadOption func(*uploadOptions)

// WithUpsert overwrites an existing object at the same path instead of
// failing.
func WithUpsert(upsert bool) UploadOption {
	return func(args *uploadOptions) {
		args.upsert = upsert
	}
}

// WithContentType overrides the content type inferred from the object
// path's extension.
func WithContentType(ct string) UploadOption {
	return func(args *uploadOptions) {
		args.contentType = ct
	}
}

type listOptions struct {
	prefix string
	search string
	limit  int
}

// ListOption controls object listings.
type ListOption func(*listOptions)

// WithPrefix restricts a listing to objects under the given path prefix.
func WithPrefix(prefix string) ListOption {
	return func(args *listOptions) {
		args.prefix = prefix
	}
}

// WithSearch filters a listing by a free-text term.
func WithSearch(search string) ListOption {
	return func(args *listOptions) {
		args.search = search
	}
}

// WithLimit caps the number of entries returned by a listing.
func WithLimit(limit int) ListOption {
	return func(args *listOptions) {
		args.limit = limit
	}
}

func (c *Client) putObject(ctx context.Context, method, bucket, pth string, r io.Reader, size int64, opts ...UploadOption) (*Object, error) {
	args := &uploadOptions{}
	for _, opt := range opts {
		opt(args)
	}
	ct := args.contentType
	if ct == "" {
		ct = getContentType(pth)
	}
	req, err := c.newRequest(ctx, method, c.apiURL("object", bucket, pth), r)
	if err != nil {
		return nil, err
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", ct)
	if args.upsert {
		req.Header.Set("X-Upsert", "true")
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode/100 != 2 {
		return nil, parseAPIError(res)
	}
	return &Object{
		Name:        pth,
		BucketID:    bucket,
		Size:        size,
		ContentType: ct,
	}, nil
}

// UploadObject stores the contents of r at pth. Existing objects are only
// overwritten with WithUpsert.
func (c *Client) UploadObject(ctx context.Context, bucket, pth string, r io.Reader, size int64, opts ...UploadOption) (*Object, error) {
	return c.putObject(ctx, http.MethodPost, bucket, pth, r, size, opts...)
}

// UpdateObject replaces the object at pth with the contents of r.
func (c *Client) UpdateObject(ctx context.Context, bucket, pth string, r io.Reader, size int64, opts ...UploadOption) (*Object, error) {
	return c.putObject(ctx, http.MethodPut, bucket, pth, r, size, opts...)
}

// DownloadObject returns a reader over the object's contents and its size
// when known (-1 otherwise). The caller must close the reader.
func (c *Client) DownloadObject(ctx context.Context, bucket, pth string) (io.ReadCloser, int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.apiURL("object", bucket, pth), nil)
	if err != nil {
		return nil, 0, err
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return nil, 0, err
	}
	if res.StatusCode/100 != 2 {
		defer func() { _ = res.Body.Close() }()
		return nil, 0, parseAPIError(res)
	}
	return res.Body, res.ContentLength, nil
}

// ListObjects returns objects in a bucket, optionally filtered by prefix
// and search term. The limit defaults to DefaultListLimit.
func (c *Client) ListObjects(ctx context.Context, bucket string, opts ...ListOption) ([]Object, error) {
	args := &listOptions{limit: DefaultListLimit}
	for _, opt := range opts {
		opt(args)
	}
	req := struct {
		Prefix string `json:"prefix"`
		Search string `json:"search,omitempty"`
		Limit  int    `json:"limit"`
	}{
		Prefix: args.prefix,
		Search: args.search,
		Limit:  args.limit,
	}
	var objects []Object
	if err := c.doJSON(ctx, http.MethodPost, c.apiURL("object", "list", bucket), req, &objects); err != nil {
		return nil, err
	}
	return objects, nil
}

// RemoveObjects removes the given paths from a bucket in a single request
// and returns the entries the service actually removed.
func (c *Client) RemoveObjects(ctx context.Context, bucket string, paths []string) ([]Object, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no paths to remove")
	}
	req := struct {
		Prefixes []string `json:"prefixes"`
	}{
		Prefixes: paths,
	}
	var removed []Object
	if err := c.doJSON(ctx, http.MethodDelete, c.apiURL("object", bucket), req, &removed); err != nil {
		return nil, err
	}
	return removed, nil
}

type moveRequest struct {
	BucketID       string `json:"bucketId"`
	SourceKey      string `json:"sourceKey"`
	DestinationKey string `json:"destinationKey"`
}

// MoveObject renames an object within a bucket.
func (c *Client) MoveObject(ctx context.Context, bucket, from, to string) error {
	req := moveRequest{BucketID: bucket, SourceKey: from, DestinationKey: to}
	return c.doJSON(ctx, http.MethodPost, c.apiURL("object", "move"), req, nil)
}

// CopyObject copies an object within a bucket and returns the new key.
func (c *Client) CopyObject(ctx context.Context, bucket, from, to string) (string, error) {
	req := moveRequest{BucketID: bucket, SourceKey: from, DestinationKey: to}
	var res struct {
		Key string `json:"Key"`
	}
	if err := c.doJSON(ctx, http.MethodPost, c.apiURL("object", "copy"), req, &res); err != nil {
		return "", err
	}
	return res.Key, nil
}

// ObjectInfo returns the metadata of a single object.
func (c *Client) ObjectInfo(ctx context.Context, bucket, pth string) (*Object, error) {
	var obj Object
	if err := c.doJSON(ctx, http.MethodGet, c.apiURL("object", "info", bucket, pth), nil, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

// ObjectExists reports whether an object is present without fetching it.
func (c *Client) ObjectExists(ctx context.Context, bucket, pth string) (bool, error) {
	req, err := c.newRequest(ctx, http.MethodHead, c.apiURL("object", bucket, pth), nil)
	if err != nil {
		return false, err
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return false, err
	}
	defer func() { _ = res.Body.Close() }()
	switch {
	case res.StatusCode/100 == 2:
		return true, nil
	case res.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, &APIError{Status: res.StatusCode}
	}
}

// getContentType maps a path's extension to a MIME type. Matching is
// case-insensitive and unknown extensions fall back to a binary type.
func getContentType(pth string) string {
	ext := strings.ToLower(filepath.Ext(pth))
	switch ext {
	case ".html", ".htm":
		return "text/html"
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".json":
		return "application/json"
	case ".xml":
		return "application/xml"
	case ".txt":
		return "text/plain"
	case ".md":
		return "text/markdown"
	case ".csv":
		return "text/csv"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".ico":
		return "image/x-icon"
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".pdf":
		return "application/pdf"
	case ".zip":
		return "application/zip"
	case ".gz":
		return "application/gzip"
	case ".tar":
		return "application/x-tar"
	default:
		return "application/octet-stream"
	}
}
