package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/thedaneeffect/ebiten-objviewer/internal/wavefront"
)

// Model names an OBJ file and, optionally, the MTL file to use with it.
// Without MTL the OBJ's own mtllib references are used.
type Model struct {
	Name string `toml:"name"`
	OBJ  string `toml:"obj"`
	MTL  string `toml:"mtl"`
}

func (m Model) key() string {
	if m.Name != "" {
		return m.Name
	}
	return m.OBJ
}

func (m Model) String() string {
	return m.key()
}

// Loader fetches and builds meshes, keeping recently built ones in an LRU
// cache so that switching between models doesn't reparse them.
type Loader struct {
	fetcher Fetcher
	cache   *lru.Cache
	log     logrus.FieldLogger
}

func NewLoader(fetcher Fetcher, cacheSize int, log logrus.FieldLogger) (*Loader, error) {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Loader{fetcher: fetcher, cache: cache, log: log}, nil
}

// Load returns the mesh for m, from the cache when possible. A failed load
// returns no mesh and leaves the cache untouched.
func (l *Loader) Load(ctx context.Context, m Model) (*wavefront.Mesh, error) {
	if v, ok := l.cache.Get(m.key()); ok {
		return v.(*wavefront.Mesh), nil
	}
	mesh, err := l.load(ctx, m)
	if err != nil {
		return nil, err
	}
	l.cache.Add(m.key(), mesh)
	return mesh, nil
}

// Reload bypasses the cache.
func (l *Loader) Reload(ctx context.Context, m Model) (*wavefront.Mesh, error) {
	mesh, err := l.load(ctx, m)
	if err != nil {
		return nil, err
	}
	l.cache.Add(m.key(), mesh)
	return mesh, nil
}

func (l *Loader) Invalidate(m Model) {
	l.cache.Remove(m.key())
}

func (l *Loader) Cached() int {
	return l.cache.Len()
}

func (l *Loader) load(ctx context.Context, m Model) (*wavefront.Mesh, error) {
	start := time.Now()
	if m.OBJ == "" {
		return nil, fmt.Errorf("model %s: no obj source", m)
	}

	var objText, mtlText string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := l.fetcher.Fetch(gctx, m.OBJ)
		if err != nil {
			return fmt.Errorf("fetch obj: %w", err)
		}
		objText = text
		return nil
	})
	if m.MTL != "" {
		g.Go(func() error {
			text, err := l.fetcher.Fetch(gctx, m.MTL)
			if err != nil {
				return fmt.Errorf("fetch mtl: %w", err)
			}
			mtlText = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("model %s: %w", m, err)
	}

	var materials wavefront.MaterialMap
	if m.MTL != "" {
		materials = wavefront.ParseMaterials(mtlText)
	} else {
		var err error
		materials, err = l.libraries(ctx, m.OBJ, wavefront.Libraries(objText))
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", m, err)
		}
	}

	mesh, err := wavefront.Build(objText, materials)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", m, err)
	}

	l.log.WithFields(logrus.Fields{
		"model":     m.key(),
		"vertices":  mesh.VertexCount(),
		"triangles": mesh.TriangleCount(),
		"groups":    len(mesh.Groups),
		"materials": len(materials),
		"elapsed":   time.Since(start),
	}).Info("Loaded model")

	return mesh, nil
}

// libraries fetches mtllib references in parallel and merges them in
// declaration order. Missing files are skipped, their groups fall back to
// the default material.
func (l *Loader) libraries(ctx context.Context, base string, names []string) (wavefront.MaterialMap, error) {
	if len(names) == 0 {
		return nil, nil
	}

	texts := make([]string, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		uri := Resolve(base, name)
		g.Go(func() error {
			text, err := l.fetcher.Fetch(gctx, uri)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				l.log.WithError(err).WithField("mtllib", uri).Warn("Skipping material library")
				return nil
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	materials := wavefront.MaterialMap{}
	for _, text := range texts {
		for name, m := range wavefront.ParseMaterials(text) {
			materials[name] = m
		}
	}
	return materials, nil
}
