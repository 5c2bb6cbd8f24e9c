// Package config loads the gridpaint engine configuration from TOML.
//
// A configuration file is optional. Missing keys keep their defaults, so a
// file only needs to name what it changes:
//
//	[font]
//	face = "Go Mono"
//	size = 18
//
//	[cursor]
//	type = "vertical-bar"
//	width = 2
//
// Watcher reloads the file when it changes on disk.
package config

import (
	"fmt"
	"strings"

	"github.com/dshills/gridpaint/internal/renderer/core"
	"github.com/dshills/gridpaint/internal/renderer/font"
)

// Config is the complete engine configuration.
type Config struct {
	Font   FontConfig   `toml:"font"`
	Colors ColorConfig  `toml:"colors"`
	Cursor CursorConfig `toml:"cursor"`
	Render RenderConfig `toml:"render"`
	Log    LogConfig    `toml:"log"`
}

// FontConfig selects the face the provider resolves.
type FontConfig struct {
	Face string `toml:"face"`
	// Size is the cell height in pixels.
	Size int `toml:"size"`
	// Width forces the cell width. Zero derives it from the face.
	Width   int `toml:"width"`
	Weight  int `toml:"weight"`
	Charset int `toml:"charset"`
	DPI     int `toml:"dpi"`
}

// ColorConfig holds colors as hex strings ("#rrggbb").
type ColorConfig struct {
	Foreground string `toml:"foreground"`
	Background string `toml:"background"`
	Cursor     string `toml:"cursor"`
	Gridline   string `toml:"gridline"`
	Underline  string `toml:"underline"`
}

// CursorConfig describes the cursor shape.
type CursorConfig struct {
	Type          string `toml:"type"`
	HeightPercent int    `toml:"height_percent"`
	Width         int    `toml:"width"`
	UseColor      bool   `toml:"use_color"`
}

// RenderConfig tunes the frame compositor.
type RenderConfig struct {
	// InvertPattern is XORed into inverted cursor and selection pixels.
	InvertPattern      string `toml:"invert_pattern"`
	DebugObserver      bool   `toml:"debug_observer"`
	RearmOnBlitFailure bool   `toml:"rearm_on_blit_failure"`
	Columns            int    `toml:"columns"`
	Rows               int    `toml:"rows"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	// File enables rotating file output. Empty logs to stderr.
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Font: FontConfig{
			Face:   font.FaceGoMono,
			Size:   16,
			Weight: font.NormalWeight,
			DPI:    96,
		},
		Colors: ColorConfig{
			Foreground: "#c0c0c0",
			Background: "#0c0c0c",
			Cursor:     "#ffffff",
			Gridline:   "#808080",
			Underline:  "#c0c0c0",
		},
		Cursor: CursorConfig{
			Type:          core.CursorBlock.String(),
			HeightPercent: 25,
			Width:         1,
		},
		Render: RenderConfig{
			InvertPattern: "#c0c0c0",
			Columns:       80,
			Rows:          24,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  20,
			MaxBackups: 5,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// Validate checks every setting and returns the first failure.
func (c Config) Validate() error {
	if c.Font.Size <= 0 {
		return &ValidationError{Key: "font.size", Message: "must be positive", Value: c.Font.Size}
	}
	if c.Font.Width < 0 {
		return &ValidationError{Key: "font.width", Message: "must not be negative", Value: c.Font.Width}
	}
	if c.Font.Weight < 1 || c.Font.Weight > 1000 {
		return &ValidationError{Key: "font.weight", Message: "must be in [1,1000]", Value: c.Font.Weight}
	}
	if c.Font.DPI <= 0 {
		return &ValidationError{Key: "font.dpi", Message: "must be positive", Value: c.Font.DPI}
	}
	if _, err := c.Colors.Palette(); err != nil {
		return err
	}
	if _, err := ParseCursorType(c.Cursor.Type); err != nil {
		return &ValidationError{Key: "cursor.type", Message: err.Error(), Value: c.Cursor.Type}
	}
	if c.Cursor.HeightPercent < 0 || c.Cursor.HeightPercent > 100 {
		return &ValidationError{Key: "cursor.height_percent", Message: "must be in [0,100]", Value: c.Cursor.HeightPercent}
	}
	if c.Cursor.Width < 0 {
		return &ValidationError{Key: "cursor.width", Message: "must not be negative", Value: c.Cursor.Width}
	}
	if _, err := core.ParseColor(c.Render.InvertPattern); err != nil {
		return &ValidationError{Key: "render.invert_pattern", Message: err.Error(), Value: c.Render.InvertPattern}
	}
	if c.Render.Columns <= 0 || c.Render.Rows <= 0 {
		return &ValidationError{Key: "render.columns", Message: "grid must have at least one cell", Value: fmt.Sprintf("%dx%d", c.Render.Columns, c.Render.Rows)}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return &ValidationError{Key: "log.format", Message: "must be text or json", Value: c.Log.Format}
	}
	return nil
}

// Desired converts the font section into a provider request.
func (c Config) Desired() font.Desired {
	return font.Desired{
		Face:    c.Font.Face,
		Size:    core.Size{Width: c.Font.Width, Height: c.Font.Size},
		Weight:  c.Font.Weight,
		Charset: c.Font.Charset,
		DPI:     c.Font.DPI,
	}
}

// CursorOptions converts the cursor section into paint options for the cell
// at coord.
func (c Config) CursorOptions(coord core.Point) (core.CursorOptions, error) {
	ct, err := ParseCursorType(c.Cursor.Type)
	if err != nil {
		return core.CursorOptions{}, err
	}
	pal, err := c.Colors.Palette()
	if err != nil {
		return core.CursorOptions{}, err
	}
	return core.CursorOptions{
		Coord:         coord,
		Type:          ct,
		HeightPercent: c.Cursor.HeightPercent,
		PixelWidth:    c.Cursor.Width,
		IsOn:          true,
		UseColor:      c.Cursor.UseColor,
		Color:         pal.Cursor,
	}, nil
}

// Palette is ColorConfig with every color parsed.
type Palette struct {
	Foreground core.Color
	Background core.Color
	Cursor     core.Color
	Gridline   core.Color
	Underline  core.Color
}

// Palette parses every color.
func (cc ColorConfig) Palette() (Palette, error) {
	var p Palette
	fields := []struct {
		key string
		raw string
		dst *core.Color
	}{
		{"colors.foreground", cc.Foreground, &p.Foreground},
		{"colors.background", cc.Background, &p.Background},
		{"colors.cursor", cc.Cursor, &p.Cursor},
		{"colors.gridline", cc.Gridline, &p.Gridline},
		{"colors.underline", cc.Underline, &p.Underline},
	}
	for _, f := range fields {
		col, err := core.ParseColor(f.raw)
		if err != nil {
			return Palette{}, &ValidationError{Key: f.key, Message: err.Error(), Value: f.raw}
		}
		*f.dst = col
	}
	return p, nil
}

var cursorTypes = map[string]core.CursorType{
	"block":             core.CursorBlock,
	"legacy":            core.CursorBlock,
	"vertical-bar":      core.CursorVerticalBar,
	"bar":               core.CursorVerticalBar,
	"underscore":        core.CursorUnderscore,
	"double-underscore": core.CursorDoubleUnderscore,
	"empty-box":         core.CursorEmptyBox,
	"full-box":          core.CursorFullBox,
}

// ParseCursorType maps a cursor type name to its shape. Names are
// case-insensitive and accept underscores in place of dashes.
func ParseCursorType(name string) (core.CursorType, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	ct, ok := cursorTypes[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCursorType, name)
	}
	return ct, nil
}
