package source

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type changes struct {
	mu   sync.Mutex
	seen []string
}

func (c *changes) add(m Model) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, m.key())
}

func (c *changes) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.seen {
		if s == key {
			return true
		}
	}
	return false
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	write := func(name, text string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(text), 0o644))
		return p
	}
	cubeOBJ := write("cube.obj", "v 0 0 0")
	cubeMTL := write("cube.mtl", "newmtl a")
	planeOBJ := write("plane.obj", "v 0 0 0")

	models := []Model{
		{Name: "cube", OBJ: cubeOBJ, MTL: cubeMTL},
		{Name: "plane", OBJ: planeOBJ},
		{Name: "remote", OBJ: "https://example.com/x.obj"},
	}

	var c changes
	w, err := NewWatcher(models, quietLogger(), c.add)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	write("cube.mtl", "newmtl b")
	require.Eventually(t, func() bool { return c.has("cube") }, 5*time.Second, 20*time.Millisecond)

	// plane has no explicit mtl, so any library next to it counts
	write("other.mtl", "newmtl c")
	require.Eventually(t, func() bool { return c.has("plane") }, 5*time.Second, 20*time.Millisecond)

	write("unrelated.txt", "x")
	time.Sleep(3 * settleDelay)
	assert.False(t, c.has("remote"))
}

func TestWatcherDebounce(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.obj")
	require.NoError(t, os.WriteFile(p, []byte("v 0 0 0"), 0o644))

	var mu sync.Mutex
	calls := 0
	w, err := NewWatcher([]Model{{Name: "a", OBJ: p}}, quietLogger(), func(Model) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	for i := range 5 {
		require.NoError(t, os.WriteFile(p, []byte{byte('0' + i)}, 0o644))
	}
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls > 0
	}, 5*time.Second, 20*time.Millisecond)

	time.Sleep(3 * settleDelay)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}
