package network

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// ResolveURL resolves ref against base. Absolute refs and data URLs are
// returned unchanged.
func ResolveURL(base, ref string) (string, error) {
	if ref == "" {
		return base, nil
	}
	if IsDataURL(ref) {
		return ref, nil
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid reference URL: %w", err)
	}
	if refURL.IsAbs() || base == "" {
		return refURL.String(), nil
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	return baseURL.ResolveReference(refURL).String(), nil
}

// FileURL turns a local path into an absolute file:// URL.
func FileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

// IsDataURL reports whether s is a data: URL.
func IsDataURL(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "data:")
}

// DataURL is a decoded data: URL.
type DataURL struct {
	MediaType string
	Charset   string
	Data      []byte
}

// ParseDataURL decodes data:[<mediatype>][;base64],<data>.
func ParseDataURL(s string) (*DataURL, error) {
	if !IsDataURL(s) {
		return nil, fmt.Errorf("not a data URL")
	}
	meta, data, ok := strings.Cut(s[5:], ",")
	if !ok {
		return nil, fmt.Errorf("invalid data URL: missing comma")
	}

	d := &DataURL{MediaType: "text/plain", Charset: "us-ascii"}
	b64 := false
	for i, part := range strings.Split(meta, ";") {
		switch {
		case part == "base64":
			b64 = true
		case strings.HasPrefix(strings.ToLower(part), "charset="):
			d.Charset = strings.ToLower(part[len("charset="):])
		case i == 0 && part != "":
			d.MediaType = part
		}
	}

	if b64 {
		decoded, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("decode base64 data: %w", err)
		}
		d.Data = decoded
		return d, nil
	}
	decoded, err := url.PathUnescape(data)
	if err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	d.Data = []byte(decoded)
	return d, nil
}

// ParseContentType splits a Content-Type header into its media type and
// lowercased charset.
func ParseContentType(contentType string) (mediaType, charset string) {
	if contentType == "" {
		return "application/octet-stream", ""
	}
	parts := strings.Split(contentType, ";")
	mediaType = strings.ToLower(strings.TrimSpace(parts[0]))
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(strings.ToLower(part), "charset=") {
			charset = strings.ToLower(strings.Trim(part[len("charset="):], `"`))
			break
		}
	}
	return mediaType, charset
}

// guessContentType maps a file extension to the media types pages use.
func guessContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return "text/html"
	case ".css":
		return "text/css"
	case ".js", ".mjs":
		return "text/javascript"
	default:
		return "application/octet-stream"
	}
}
