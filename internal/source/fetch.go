// Package source fetches OBJ/MTL text from disk or HTTP and turns it into
// meshes.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Fetcher retrieves the text behind a URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (string, error)
}

// DefaultFetcher reads http(s) URIs over the network and anything else,
// including file:// URIs, from the local filesystem.
type DefaultFetcher struct {
	Client *http.Client
}

func (f DefaultFetcher) Fetch(ctx context.Context, uri string) (string, error) {
	if !IsRemote(uri) {
		data, err := os.ReadFile(LocalPath(uri))
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return "", err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: %s", uri, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", uri, err)
	}
	return string(data), nil
}

func IsRemote(uri string) bool {
	return strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://")
}

// LocalPath strips a file:// scheme.
func LocalPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

// Resolve interprets ref relative to the document at base, the way mtllib
// names are relative to their OBJ file.
func Resolve(base, ref string) string {
	if IsRemote(ref) || filepath.IsAbs(ref) {
		return ref
	}
	if IsRemote(base) {
		u, err := url.Parse(base)
		if err != nil {
			return ref
		}
		r, err := url.Parse(ref)
		if err != nil {
			u.Path = path.Join(path.Dir(u.Path), ref)
			return u.String()
		}
		return u.ResolveReference(r).String()
	}
	return filepath.Join(filepath.Dir(LocalPath(base)), ref)
}
