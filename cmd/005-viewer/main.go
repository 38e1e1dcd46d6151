package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/thedaneeffect/ebiten-objviewer/internal/config"
	"github.com/thedaneeffect/ebiten-objviewer/internal/render"
	"github.com/thedaneeffect/ebiten-objviewer/internal/source"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML config `file`",
	}
	objFlag = &cli.StringFlag{
		Name:  "obj",
		Usage: "OBJ `path or URL` to show first",
	}
	mtlFlag = &cli.StringFlag{
		Name:  "mtl",
		Usage: "MTL `path or URL` for --obj (defaults to its mtllib references)",
	}
	watchFlag = &cli.BoolFlag{
		Name:  "watch",
		Usage: "reload local models when their files change",
	}
	cpuFlag = &cli.BoolFlag{
		Name:  "cpu",
		Usage: "start with the software rasterizer",
	}
	cpuProfileFlag = &cli.StringFlag{
		Name:  "cpuprofile",
		Usage: "write cpu profile to `file`",
	}
	memProfileFlag = &cli.StringFlag{
		Name:  "memprofile",
		Usage: "write memory profile to `file`",
	}
	pprofFlag = &cli.StringFlag{
		Name:  "pprof",
		Usage: "serve net/http/pprof on `addr`",
	}
	verbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "log level (panic, fatal, error, warn, info, debug, trace)",
	}
)

func main() {
	app := &cli.App{
		Name:   "005-viewer",
		Usage:  "interactive Wavefront OBJ/MTL viewer",
		Flags:  []cli.Flag{configFlag, objFlag, mtlFlag, watchFlag, cpuFlag, cpuProfileFlag, memProfileFlag, pprofFlag, verbosityFlag},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig layers the config file and then the flags over the defaults.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := ctx.String(configFlag.Name); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}

	if obj := ctx.String(objFlag.Name); obj != "" {
		name := strings.TrimSuffix(filepath.Base(obj), filepath.Ext(obj))
		m := source.Model{Name: name, OBJ: obj, MTL: ctx.String(mtlFlag.Name)}
		cfg.Models = append([]source.Model{m}, cfg.Models...)
	}
	if ctx.IsSet(watchFlag.Name) {
		cfg.Loader.Watch = ctx.Bool(watchFlag.Name)
	}
	if ctx.IsSet(cpuFlag.Name) {
		cfg.Window.CPU = ctx.Bool(cpuFlag.Name)
	}
	if ctx.IsSet(cpuProfileFlag.Name) {
		cfg.Profile.CPUProfile = ctx.String(cpuProfileFlag.Name)
	}
	if ctx.IsSet(memProfileFlag.Name) {
		cfg.Profile.MemProfile = ctx.String(memProfileFlag.Name)
	}
	if ctx.IsSet(pprofFlag.Name) {
		cfg.Profile.PprofAddr = ctx.String(pprofFlag.Name)
	}
	if ctx.IsSet(verbosityFlag.Name) {
		cfg.LogLevel = ctx.String(verbosityFlag.Name)
	}
	return cfg, cfg.Validate()
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	}
	return log
}

func run(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)

	if cfg.Profile.CPUProfile != "" {
		f, err := os.Create(cfg.Profile.CPUProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	if cfg.Profile.MemProfile != "" {
		defer func() {
			f, err := os.Create(cfg.Profile.MemProfile)
			if err != nil {
				log.WithError(err).Error("Could not create memory profile")
				return
			}
			defer f.Close()
			runtime.GC() // get up-to-date statistics
			if err := pprof.WriteHeapProfile(f); err != nil {
				log.WithError(err).Error("Could not write memory profile")
			}
		}()
	}

	if addr := cfg.Profile.PprofAddr; addr != "" {
		go func() {
			log.WithError(http.ListenAndServe(addr, nil)).Warn("pprof server stopped")
		}()
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	loader, err := source.NewLoader(source.DefaultFetcher{}, cfg.Loader.CacheSize, log)
	if err != nil {
		return err
	}

	renderer, err := render.New()
	if err != nil {
		return err
	}
	renderer.UseCPU = cfg.Window.CPU

	g, err := newGame(ctx, cfg, loader, renderer, log)
	if err != nil {
		return err
	}

	if cfg.Loader.Watch {
		w, err := source.NewWatcher(cfg.Models, log, g.notifyChanged)
		if err != nil {
			return fmt.Errorf("watch models: %w", err)
		}
		defer w.Close()
		go w.Run(ctx)
	}

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(cfg.Window.VSync)

	return ebiten.RunGame(g)
}
