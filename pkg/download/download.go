// Package download fetches release archives and metadata over HTTP.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-faster/jx"
	"github.com/golang/glog"
	"github.com/google/uuid"

	"github.com/gmpack/aiou/pkg/jsonutil"
	"github.com/gmpack/aiou/pkg/progress"
)

// GitHubAccept is the media type requested from the GitHub releases API.
const GitHubAccept = "application/vnd.github.v3+json"

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s", e.URL, ErrorMessage(e.Code))
}

// ErrorMessage renders an HTTP status code for the user.
func ErrorMessage(code int) string {
	switch code {
	case http.StatusInternalServerError:
		return fmt.Sprintf("%d: Internal Server Error", code)
	case http.StatusServiceUnavailable:
		return fmt.Sprintf("%d: Service Temporarily Unavailable", code)
	}
	return fmt.Sprintf("error: %d", code)
}

// Client downloads files. The zero value uses http.DefaultClient.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	// Progress, if set, receives byte counters while a body is read.
	Progress *progress.Event
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not download %s: %w", url, err)
	}
	return resp, nil
}

func ok(code int) bool {
	return code >= 200 && code < 300
}

// countingReader reports progress as the body is consumed.
type countingReader struct {
	r     io.Reader
	n     int64
	total int64
	ev    *progress.Event
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	if c.ev != nil {
		c.ev.SetCounters(c.n, c.total)
	}
	return n, err
}

func (c *Client) body(resp *http.Response) io.Reader {
	if c.Progress != nil {
		c.Progress.SetCounters(0, resp.ContentLength)
	}
	return &countingReader{r: resp.Body, total: resp.ContentLength, ev: c.Progress}
}

// File downloads url to dest and returns the HTTP status code. The body is
// streamed into a staging file next to dest which only replaces dest once the
// transfer completed with a 2xx status.
func (c *Client) File(ctx context.Context, url, dest string) (int, error) {
	glog.Infof("Downloading %s to %s...", url, dest)
	resp, err := c.get(ctx, url, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if !ok(resp.StatusCode) {
		return resp.StatusCode, &StatusError{URL: url, Code: resp.StatusCode}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return resp.StatusCode, err
	}
	part := fmt.Sprintf("%s.%s.part", dest, uuid.NewString())
	out, err := os.Create(part)
	if err != nil {
		return resp.StatusCode, err
	}
	if _, err := io.CopyBuffer(out, c.body(resp), make([]byte, 64*1024)); err != nil {
		out.Close()
		os.Remove(part)
		return resp.StatusCode, fmt.Errorf("could not download %s: %w", url, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(part)
		return resp.StatusCode, err
	}
	if err := os.Rename(part, dest); err != nil {
		os.Remove(part)
		return resp.StatusCode, err
	}
	return resp.StatusCode, nil
}

// Bytes downloads url into memory.
func (c *Client) Bytes(ctx context.Context, url string) ([]byte, error) {
	b, _, err := c.fetch(ctx, url, nil)
	return b, err
}

// String downloads url into a string.
func (c *Client) String(ctx context.Context, url string) (string, error) {
	b, err := c.Bytes(ctx, url)
	return string(b), err
}

func (c *Client) fetch(ctx context.Context, url string, headers map[string]string) ([]byte, int, error) {
	resp, err := c.get(ctx, url, headers)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	if !ok(resp.StatusCode) {
		return nil, resp.StatusCode, &StatusError{URL: url, Code: resp.StatusCode}
	}
	b, err := io.ReadAll(c.body(resp))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("could not download %s: %w", url, err)
	}
	return b, resp.StatusCode, nil
}

// JSON fetches a JSON document with the given extra request headers.
func (c *Client) JSON(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	b, _, err := c.fetch(ctx, url, headers)
	if err != nil {
		return nil, err
	}
	if !jx.Valid(b) {
		return nil, fmt.Errorf("%s: response is not valid JSON", url)
	}
	return b, nil
}

// Asset is a file attached to a release.
type Asset struct {
	Name string
	URL  string
}

// Release is the part of a GitHub release the updater uses.
type Release struct {
	Tag        string
	Prerelease bool
	Assets     []Asset
}

// Asset returns the first asset with the given name.
func (r *Release) Asset(name string) (Asset, bool) {
	for _, a := range r.Assets {
		if a.Name == name {
			return a, true
		}
	}
	return Asset{}, false
}

func parseAssets(raw jx.Raw) ([]Asset, error) {
	if raw.Type() != jx.Array {
		return nil, nil
	}
	var res []Asset
	err := jx.DecodeBytes(raw).Arr(func(d *jx.Decoder) error {
		obj, err := d.Raw()
		if err != nil {
			return err
		}
		name, _ := jsonutil.StringValue(obj, "name")
		url, _ := jsonutil.StringValue(obj, "browser_download_url")
		res = append(res, Asset{Name: name, URL: url})
		return nil
	})
	return res, err
}

// Latest queries a GitHub 'latest release' endpoint. Missing fields are left
// empty.
func (c *Client) Latest(ctx context.Context, url string) (*Release, error) {
	doc, err := c.JSON(ctx, url, map[string]string{"Accept": GitHubAccept})
	if err != nil {
		return nil, err
	}
	tag, _ := jsonutil.StringValue(doc, "tag_name")
	assets, err := parseAssets(jsonutil.ValueFromKey(doc, "assets"))
	if err != nil {
		return nil, fmt.Errorf("%s: could not parse assets: %w", url, err)
	}
	return &Release{
		Tag:        tag,
		Prerelease: jsonutil.BoolValue(doc, "prerelease"),
		Assets:     assets,
	}, nil
}
