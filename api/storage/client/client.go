package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	gopath "path"
)

// Client provides the storage api over HTTP. All requests carry the
// service key as a bearer token.
type Client struct {
	host *url.URL
	key  string
	hc   *http.Client
}

// NewClient returns a client bound to the target endpoint.
func NewClient(target, key string) (*Client, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("parsing target address: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("target address must include an http or https scheme")
	}
	return &Client{
		host: u,
		key:  key,
		hc:   &http.Client{},
	}, nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() error {
	c.hc.CloseIdleConnections()
	return nil
}

// Host returns the endpoint the client is bound to.
func (c *Client) Host() string {
	return c.host.String()
}

// apiURL builds an absolute URL for the given unescaped path segments.
func (c *Client) apiURL(segments ...string) *url.URL {
	u := *c.host
	u.Path = gopath.Join(append([]string{u.Path}, segments...)...)
	return &u
}

// absURL resolves a server-relative URL (e.g. a signed path) against the
// client host.
func (c *Client) absURL(rel string) string {
	ref, err := url.Parse(rel)
	if err != nil {
		return rel
	}
	return c.host.ResolveReference(ref).String()
}

func (c *Client) newRequest(ctx context.Context, method string, u *url.URL, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	return req, nil
}

// doJSON performs a request with an optional JSON body, decoding a 2xx
// response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method string, u *url.URL, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := c.newRequest(ctx, method, u, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode/100 != 2 {
		return parseAPIError(res)
	}
	if out != nil {
		return json.NewDecoder(res.Body).Decode(out)
	}
	return nil
}
