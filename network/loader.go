package network

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Resource is a loaded document, script or stylesheet.
type Resource struct {
	URL         string
	Content     []byte
	ContentType string
	Charset     string
	Cached      bool
}

// String returns the content as text.
func (r *Resource) String() string {
	return string(r.Content)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithClient sets the HTTP client. Without one, http and https URLs fail.
func WithClient(c *Client) LoaderOption {
	return func(l *Loader) {
		l.client = c
	}
}

// WithCache sets the response cache.
func WithCache(c *Cache) LoaderOption {
	return func(l *Loader) {
		l.cache = c
	}
}

// WithLogger sets the loader logger.
func WithLogger(log *zap.Logger) LoaderOption {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// Loader resolves references against a base URL and reads them from
// data: URLs, the file system or HTTP.
type Loader struct {
	client *Client
	cache  *Cache
	log    *zap.Logger
}

// NewLoader creates a loader. It reads local files and data URLs only until
// a client is given.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{log: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves ref against base and reads it. A base or ref without a
// scheme is a local path.
func (l *Loader) Load(ctx context.Context, base, ref string) (*Resource, error) {
	if IsDataURL(ref) {
		return loadDataURL(ref)
	}
	resolved, err := ResolveURL(base, ref)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(resolved)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", resolved, err)
	}

	switch u.Scheme {
	case "", "file":
		return loadFile(resolved, u)
	case "http", "https":
		return l.loadHTTP(ctx, resolved)
	default:
		return nil, fmt.Errorf("unsupported scheme %q in %s", u.Scheme, resolved)
	}
}

func loadDataURL(ref string) (*Resource, error) {
	d, err := ParseDataURL(ref)
	if err != nil {
		return nil, err
	}
	return &Resource{URL: ref, Content: d.Data, ContentType: d.MediaType, Charset: d.Charset}, nil
}

func loadFile(resolved string, u *url.URL) (*Resource, error) {
	path := filepath.FromSlash(u.Path)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Resource{URL: resolved, Content: content, ContentType: guessContentType(path)}, nil
}

func (l *Loader) loadHTTP(ctx context.Context, urlStr string) (*Resource, error) {
	if l.cache != nil {
		if resp, ok := l.cache.Get(urlStr); ok {
			return httpResource(urlStr, resp, true), nil
		}
	}
	if l.client == nil {
		return nil, fmt.Errorf("no HTTP client for %s", urlStr)
	}

	resp, err := l.client.Get(ctx, urlStr)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: status %d", urlStr, resp.StatusCode)
	}
	l.log.Debug("fetched", zap.String("url", urlStr), zap.Int("bytes", len(resp.Body)))
	if l.cache != nil {
		l.cache.Set(urlStr, resp)
	}
	return httpResource(urlStr, resp, false), nil
}

func httpResource(urlStr string, resp *Response, cached bool) *Resource {
	mediaType, charset := ParseContentType(resp.ContentType)
	final := urlStr
	if resp.URL != nil {
		final = resp.URL.String()
	}
	return &Resource{
		URL:         final,
		Content:     resp.Body,
		ContentType: mediaType,
		Charset:     charset,
		Cached:      cached,
	}
}
