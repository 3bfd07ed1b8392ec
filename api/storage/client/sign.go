package client

import (
	"context"
	"net/http"
	"net/url"
	gopath "path"
	"time"
)

// SignedURL is the outcome of signing a single path. Error is set when the
// service could not sign that path; the remaining entries are unaffected.
type SignedURL struct {
	Path      string `json:"path"`
	SignedURL string `json:"signedURL,omitempty"`
	Error     string `json:"error,omitempty"`
}

type signOptions struct {
	download   bool
	downloadAs string
}

// SignOption controls signed URL generation.
type SignOption func(*signOptions)

// WithDownload marks the signed URL as a forced download, optionally under
// a different file name.
func WithDownload(name string) SignOption {
	return func(args *signOptions) {
		args.download = true
		args.downloadAs = name
	}
}

type signRequest struct {
	ExpiresIn int64    `json:"expiresIn"`
	Paths     []string `json:"paths,omitempty"`
}

// PublicObjectURL returns the credential-free URL of an object in a public
// bucket. No request is made; the URL is derived from the endpoint.
func (c *Client) PublicObjectURL(bucket, pth string) string {
	u := *c.host
	u.Path = gopath.Join(u.Path, "object", "public", bucket, pth)
	return u.String()
}

// SignObjectURL generates a time-limited URL granting read access to one
// object.
func (c *Client) SignObjectURL(ctx context.Context, bucket, pth string, expiresIn time.Duration, opts ...SignOption) (string, error) {
	args := &signOptions{}
	for _, opt := range opts {
		opt(args)
	}
	req := signRequest{ExpiresIn: int64(expiresIn.Seconds())}
	var res struct {
		SignedURL string `json:"signedURL"`
	}
	if err := c.doJSON(ctx, http.MethodPost, c.apiURL("object", "sign", bucket, pth), req, &res); err != nil {
		return "", err
	}
	signed := c.absURL(res.SignedURL)
	if args.download {
		signed = withDownloadParam(signed, args.downloadAs)
	}
	return signed, nil
}

// SignObjectURLs signs many paths in one request. Each entry succeeds or
// fails independently.
func (c *Client) SignObjectURLs(ctx context.Context, bucket string, paths []string, expiresIn time.Duration) ([]SignedURL, error) {
	req := signRequest{ExpiresIn: int64(expiresIn.Seconds()), Paths: paths}
	var res []SignedURL
	if err := c.doJSON(ctx, http.MethodPost, c.apiURL("object", "sign", bucket), req, &res); err != nil {
		return nil, err
	}
	for i := range res {
		if res[i].SignedURL != "" {
			res[i].SignedURL = c.absURL(res[i].SignedURL)
		}
	}
	return res, nil
}

// SignUploadURL generates a time-limited URL granting write access to one
// object path.
func (c *Client) SignUploadURL(ctx context.Context, bucket, pth string) (string, error) {
	var res struct {
		URL string `json:"url"`
	}
	if err := c.doJSON(ctx, http.MethodPost, c.apiURL("object", "upload", "sign", bucket, pth), nil, &res); err != nil {
		return "", err
	}
	return c.absURL(res.URL), nil
}

func withDownloadParam(signed, name string) string {
	u, err := url.Parse(signed)
	if err != nil {
		return signed
	}
	q := u.Query()
	q.Set("download", name)
	u.RawQuery = q.Encode()
	return u.String()
}
