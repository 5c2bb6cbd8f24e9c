package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/dshills/gridpaint/internal/app"
	"github.com/dshills/gridpaint/internal/config"
	"github.com/dshills/gridpaint/internal/logging"
	"github.com/dshills/gridpaint/internal/renderer/backend"
	"github.com/dshills/gridpaint/internal/renderer/core"
	"github.com/dshills/gridpaint/internal/renderer/font"
)

func newCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "gridpaint",
		Usage:     "incremental grid-cell renderer demo",
		Version:   fmt.Sprintf("%s (%s)", version, commit),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the TOML configuration file",
				Value:   defaultConfigPath(),
			},
			&cli.StringFlag{Name: "log-level", Usage: "override [log] level (debug, info, warn, error)"},
			&cli.StringFlag{Name: "font", Usage: "override [font] face"},
			&cli.IntFlag{Name: "font-size", Usage: "override [font] size in pixels"},
			&cli.IntFlag{Name: "columns", Usage: "override [render] columns"},
			&cli.IntFlag{Name: "rows", Usage: "override [render] rows"},
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "scroll the demo grid in the terminal (q or Esc quits)",
				Flags: []cli.Flag{
					&cli.DurationFlag{Name: "step", Usage: "interval between scrolled lines", Value: 250 * time.Millisecond},
					&cli.IntFlag{Name: "fps", Usage: "frames per second", Value: 30},
					&cli.BoolFlag{Name: "watch", Usage: "reload the configuration file when it changes"},
				},
				Action: runTerminal,
			},
			{
				Name:  "snapshot",
				Usage: "render the demo grid to a PNG file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output PNG path", Required: true},
					&cli.IntFlag{Name: "steps", Usage: "lines to scroll in before the snapshot"},
				},
				Action: runSnapshot,
			},
			{
				Name:   "config",
				Usage:  "print the effective configuration as TOML",
				Action: printConfig,
			},
		},
		Action: runTerminal,
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "gridpaint.toml"
	}
	return filepath.Join(dir, "gridpaint", "config.toml")
}

// loadConfig reads the configuration file and applies command-line
// overrides.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return config.Config{}, err
	}
	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}
	if cmd.IsSet("font") {
		cfg.Font.Face = cmd.String("font")
	}
	if cmd.IsSet("font-size") {
		cfg.Font.Size = cmd.Int("font-size")
	}
	if cmd.IsSet("columns") {
		cfg.Render.Columns = cmd.Int("columns")
	}
	if cmd.IsSet("rows") {
		cfg.Render.Rows = cmd.Int("rows")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runTerminal(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// The terminal belongs to the grid; logs only go to a file.
	logger, closeLog, err := logging.Setup(cfg.Log, logging.Options{Version: version, Stderr: io.Discard})
	if err != nil {
		return err
	}
	defer closeLog()

	provider := font.NewGoProvider()
	size, err := app.CanvasSize(provider, cfg)
	if err != nil {
		return err
	}
	pattern, err := core.ParseColor(cfg.Render.InvertPattern)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating terminal: %w", err)
	}
	term, err := backend.NewTerminalWindow(screen, size, pattern)
	if err != nil {
		return err
	}
	if err := term.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer term.Shutdown()

	opts := app.Options{
		Logger:        logger,
		Provider:      provider,
		StepInterval:  cmd.Duration("step"),
		FrameInterval: time.Second / time.Duration(max(1, cmd.Int("fps"))),
	}
	if cmd.Bool("watch") {
		w, err := config.NewWatcher(cmd.String("config"))
		if err != nil {
			return err
		}
		defer w.Close()
		go logReloadErrors(logger, w.Errors())
		opts.Reloads = w.Configs()
	}

	a, err := app.New(term, cfg, opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go pollEvents(screen, a, term, cancel)

	logger.Info("running", "cell", a.Engine().GetFontSize().String(), "canvas", size.String())
	return a.Run(ctx)
}

func logReloadErrors(logger *slog.Logger, errs <-chan error) {
	for err := range errs {
		logger.Warn("config reload failed", "err", err)
	}
}

// pollEvents handles terminal input until the screen is finalized or the
// user quits.
func pollEvents(screen tcell.Screen, a *app.Application, term *backend.TerminalWindow, quit context.CancelFunc) {
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				quit()
				return
			}
		case *tcell.EventResize:
			a.Post(term.Redraw)
		}
	}
}

func runSnapshot(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.Setup(cfg.Log, logging.Options{Version: version, Stderr: cmd.Root().ErrWriter})
	if err != nil {
		return err
	}
	defer closeLog()

	provider := font.NewGoProvider()
	size, err := app.CanvasSize(provider, cfg)
	if err != nil {
		return err
	}
	pattern, err := core.ParseColor(cfg.Render.InvertPattern)
	if err != nil {
		return err
	}
	win, err := backend.NewImageWindow(size, pattern)
	if err != nil {
		return err
	}

	a, err := app.New(win, cfg, app.Options{Logger: logger, Provider: provider})
	if err != nil {
		return err
	}
	if _, err := a.Frame(); err != nil {
		return err
	}
	for range cmd.Int("steps") {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.Step(); err != nil {
			return err
		}
		if _, err := a.Frame(); err != nil {
			return err
		}
	}

	out := cmd.String("out")
	if err := writePNG(out, win); err != nil {
		return err
	}
	logger.Info("snapshot written", "path", out, "frames", a.Engine().Frames(), "size", size.String())
	return nil
}

func writePNG(path string, win *backend.ImageWindow) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return png.Encode(f, win.Image())
}

func printConfig(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = cmd.Root().Writer.Write(data)
	return err
}
