package main

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"

	"github.com/thedaneeffect/ebiten-objviewer/internal/camera"
	"github.com/thedaneeffect/ebiten-objviewer/internal/config"
	"github.com/thedaneeffect/ebiten-objviewer/internal/render"
	"github.com/thedaneeffect/ebiten-objviewer/internal/source"
	"github.com/thedaneeffect/ebiten-objviewer/internal/wavefront"
)

type loadResult struct {
	index int
	mesh  *wavefront.Mesh
	err   error
}

type game struct {
	ctx      context.Context
	cfg      config.Config
	log      logrus.FieldLogger
	loader   *source.Loader
	renderer *render.Renderer

	models  *source.Playlist
	mesh    *wavefront.Mesh
	pending int // loads in flight

	camera camera.State
	params camera.Params

	// filled from other goroutines, drained in Update
	loads   chan loadResult
	changed chan source.Model

	frametime time.Duration
}

// newGame loads the first model synchronously so a broken model fails
// before a window opens.
func newGame(ctx context.Context, cfg config.Config, loader *source.Loader, renderer *render.Renderer, log logrus.FieldLogger) (*game, error) {
	mesh, err := loader.Load(ctx, cfg.Models[0])
	if err != nil {
		return nil, err
	}
	return &game{
		ctx:      ctx,
		cfg:      cfg,
		log:      log,
		loader:   loader,
		renderer: renderer,
		models:   source.NewPlaylist(cfg.Models),
		mesh:     mesh,
		camera:   camera.New(cfg.Camera.Distance),
		params:   cfg.Camera.Params(),
		loads:    make(chan loadResult, 8),
		changed:  make(chan source.Model, 8),
	}, nil
}

// notifyChanged is called by the file watcher.
func (g *game) notifyChanged(m source.Model) {
	g.loader.Invalidate(m)
	select {
	case g.changed <- m:
	default:
	}
}

func (g *game) request(index int, m source.Model, reload bool) {
	g.pending++
	go func() {
		var mesh *wavefront.Mesh
		var err error
		if reload {
			mesh, err = g.loader.Reload(g.ctx, m)
		} else {
			mesh, err = g.loader.Load(g.ctx, m)
		}
		g.loads <- loadResult{index: index, mesh: mesh, err: err}
	}()
}

func (g *game) drain() {
	for {
		select {
		case r := <-g.loads:
			g.pending--
			if r.err != nil {
				// keep showing whatever was loaded before
				g.log.WithError(r.err).WithField("model", g.models.Model(r.index)).Error("Failed to load model")
				g.models.Failed(r.index)
				continue
			}
			if g.models.Install(r.index) {
				g.mesh = r.mesh
			}
		case m := <-g.changed:
			if i, cur := g.models.Current(); m == cur {
				g.request(i, cur, true)
			}
		default:
			return
		}
	}
}

func (g *game) switchModel(delta int) {
	if i, m, ok := g.models.Step(delta); ok {
		g.request(i, m, false)
	}
}

func (g *game) Layout(outerWidth, outerHeight int) (int, int) {
	return outerWidth, outerHeight
}

func (g *game) Update() error {
	g.drain()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.renderer.UseCPU = !g.renderer.UseCPU
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.renderer.Cull = !g.renderer.Cull
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) || inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		g.switchModel(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		g.switchModel(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		i, m := g.models.Current()
		g.request(i, m, true)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		g.camera = camera.New(g.cfg.Camera.Distance)
	}

	cx, cy := ebiten.CursorPosition()
	_, wheel := ebiten.Wheel()
	g.camera = camera.Update(g.camera, camera.Input{
		CursorX:    cx,
		CursorY:    cy,
		ButtonDown: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Wheel:      float32(wheel),
		Dt:         1 / float32(ebiten.TPS()),
	}, g.params)

	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	defer func(t time.Time) {
		ft := time.Since(t)
		if g.frametime == 0 {
			g.frametime = ft
		} else {
			g.frametime += (ft - g.frametime) / 2
		}
	}(time.Now())

	w := screen.Bounds().Dx()
	h := screen.Bounds().Dy()
	aspect := float32(w) / float32(max(h, 1))

	g.renderer.Draw(screen, render.Frame{
		Mesh:       g.mesh,
		Camera:     g.camera,
		Projection: camera.Projection(g.cfg.Camera.FOVRadians(), aspect),
		Light:      g.cfg.Light.Light(),
		Background: g.cfg.Light.BackgroundColor(),
	})

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	triangles, calls := g.renderer.Stats()
	current, model := g.models.Current()

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS: %.0f", ebiten.ActualTPS()), 0, 0)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.0f CPU: %v", ebiten.ActualFPS(), g.renderer.UseCPU), 0, 14)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Ft: %v", g.frametime), 0, 28)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Mem: %dkB", mem.Alloc/1024), 0, 42)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Triangles: %d Draws: %d", triangles, calls), 0, 56)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Eye: %.2f, %.2f @ %.2f", g.camera.Pitch, g.camera.Yaw, g.camera.Distance), 0, 70)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Model: %s (%d/%d) Groups: %d", model, current+1, g.models.Len(), len(g.mesh.Groups)), 0, 84)
	if g.pending > 0 {
		ebitenutil.DebugPrintAt(screen, "Loading...", 0, 98)
	}
}
