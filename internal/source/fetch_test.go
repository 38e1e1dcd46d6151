package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchLocal(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.obj")
	require.NoError(t, os.WriteFile(p, []byte("v 1 2 3\n"), 0o644))

	var f DefaultFetcher
	text, err := f.Fetch(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "v 1 2 3\n", text)

	text, err = f.Fetch(context.Background(), "file://"+p)
	require.NoError(t, err)
	assert.Equal(t, "v 1 2 3\n", text)

	_, err = f.Fetch(context.Background(), filepath.Join(dir, "missing.obj"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFetchRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/a.obj" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("f 1 2 3"))
	}))
	defer srv.Close()

	f := DefaultFetcher{Client: srv.Client()}
	text, err := f.Fetch(context.Background(), srv.URL+"/models/a.obj")
	require.NoError(t, err)
	assert.Equal(t, "f 1 2 3", text)

	_, err = f.Fetch(context.Background(), srv.URL+"/models/b.obj")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchRemoteCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DefaultFetcher{}.Fetch(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		base, ref, want string
	}{
		{"models/cube.obj", "cube.mtl", filepath.Join("models", "cube.mtl")},
		{"file:///data/cube.obj", "mat/cube.mtl", filepath.Join("/data", "mat", "cube.mtl")},
		{"cube.obj", "cube.mtl", "cube.mtl"},
		{"models/cube.obj", "/abs/cube.mtl", "/abs/cube.mtl"},
		{"https://example.com/m/cube.obj", "cube.mtl", "https://example.com/m/cube.mtl"},
		{"https://example.com/m/cube.obj", "../lib/cube.mtl", "https://example.com/lib/cube.mtl"},
		{"models/cube.obj", "https://cdn.example.com/cube.mtl", "https://cdn.example.com/cube.mtl"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Resolve(tt.base, tt.ref), "Resolve(%q, %q)", tt.base, tt.ref)
	}
}
