package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/gridpaint/internal/renderer/core"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v, want nil", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load missing error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load missing = %+v, want defaults", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridpaint.toml")
	data := `
[font]
face = "Terminal"
size = 13

[cursor]
type = "empty_box"
use_color = true

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if cfg.Font.Face != "Terminal" || cfg.Font.Size != 13 {
		t.Errorf("Font = %+v, want Terminal/13", cfg.Font)
	}
	if cfg.Font.DPI != 96 {
		t.Errorf("Font.DPI = %d, want default 96", cfg.Font.DPI)
	}
	if cfg.Cursor.Type != "empty_box" || !cfg.Cursor.UseColor {
		t.Errorf("Cursor = %+v", cfg.Cursor)
	}
	if cfg.Cursor.HeightPercent != 25 {
		t.Errorf("Cursor.HeightPercent = %d, want default 25", cfg.Cursor.HeightPercent)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse([]byte("[font\nsize = 3\n"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Parse error = %v, want *ParseError", err)
	}
	if pe.Line < 1 {
		t.Errorf("ParseError.Line = %d, want a position", pe.Line)
	}
	if pe.Unwrap() == nil {
		t.Error("ParseError should wrap the decoder error")
	}
}

func TestParseUnknownKey(t *testing.T) {
	_, err := Parse([]byte("[font]\nsize = 12\nsiez = 13\n"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Parse error = %v, want *ParseError", err)
	}
	if !strings.Contains(pe.Message, "font.siez") {
		t.Errorf("ParseError.Message = %q, want it to name font.siez", pe.Message)
	}
	if pe.Line != 3 {
		t.Errorf("ParseError.Line = %d, want 3", pe.Line)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		key    string
	}{
		{"zero size", func(c *Config) { c.Font.Size = 0 }, "font.size"},
		{"negative width", func(c *Config) { c.Font.Width = -1 }, "font.width"},
		{"weight", func(c *Config) { c.Font.Weight = 0 }, "font.weight"},
		{"dpi", func(c *Config) { c.Font.DPI = 0 }, "font.dpi"},
		{"color", func(c *Config) { c.Colors.Cursor = "#zzzzzz" }, "colors.cursor"},
		{"cursor type", func(c *Config) { c.Cursor.Type = "triangle" }, "cursor.type"},
		{"height", func(c *Config) { c.Cursor.HeightPercent = 101 }, "cursor.height_percent"},
		{"cursor width", func(c *Config) { c.Cursor.Width = -2 }, "cursor.width"},
		{"pattern", func(c *Config) { c.Render.InvertPattern = "nope" }, "render.invert_pattern"},
		{"grid", func(c *Config) { c.Render.Rows = 0 }, "render.columns"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("Validate() = %v, want ErrValidationFailed", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Key != tt.key {
				t.Errorf("Validate() key = %v, want %s", err, tt.key)
			}
		})
	}
}

func TestParseValidationFailure(t *testing.T) {
	_, err := Parse([]byte("[cursor]\nheight_percent = 200\n"))
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("Parse error = %v, want ErrValidationFailed", err)
	}
}

func TestParseCursorType(t *testing.T) {
	tests := []struct {
		in   string
		want core.CursorType
	}{
		{"block", core.CursorBlock},
		{"Legacy", core.CursorBlock},
		{"vertical-bar", core.CursorVerticalBar},
		{"bar", core.CursorVerticalBar},
		{"UNDERSCORE", core.CursorUnderscore},
		{"double_underscore", core.CursorDoubleUnderscore},
		{" empty-box ", core.CursorEmptyBox},
		{"full-box", core.CursorFullBox},
	}
	for _, tt := range tests {
		got, err := ParseCursorType(tt.in)
		if err != nil {
			t.Errorf("ParseCursorType(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCursorType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseCursorType("star"); !errors.Is(err, ErrUnknownCursorType) {
		t.Errorf("ParseCursorType(star) error = %v, want ErrUnknownCursorType", err)
	}
}

func TestDesired(t *testing.T) {
	cfg := Default()
	cfg.Font.Width = 9
	d := cfg.Desired()
	if d.Size != (core.Size{Width: 9, Height: 16}) {
		t.Errorf("Desired().Size = %v, want 9x16", d.Size)
	}
	if d.Face != cfg.Font.Face || d.Weight != cfg.Font.Weight || d.DPI != cfg.Font.DPI {
		t.Errorf("Desired() = %+v", d)
	}
}

func TestCursorOptions(t *testing.T) {
	cfg := Default()
	cfg.Cursor.Type = "vertical-bar"
	cfg.Cursor.Width = 3
	cfg.Cursor.UseColor = true
	cfg.Colors.Cursor = "#ff0000"

	opts, err := cfg.CursorOptions(core.Point{X: 4, Y: 2})
	if err != nil {
		t.Fatalf("CursorOptions error = %v", err)
	}
	if opts.Type != core.CursorVerticalBar || opts.PixelWidth != 3 {
		t.Errorf("CursorOptions = %+v", opts)
	}
	if !opts.IsOn || !opts.UseColor {
		t.Errorf("CursorOptions on/color = %v/%v, want true/true", opts.IsOn, opts.UseColor)
	}
	if opts.Color != core.ColorFromRGB(255, 0, 0) {
		t.Errorf("CursorOptions().Color = %v, want #ff0000", opts.Color)
	}
	if opts.Coord != (core.Point{X: 4, Y: 2}) {
		t.Errorf("CursorOptions().Coord = %v", opts.Coord)
	}
}

func TestPalette(t *testing.T) {
	p, err := Default().Colors.Palette()
	if err != nil {
		t.Fatalf("Palette error = %v", err)
	}
	if p.Background != core.ColorFromRGB(0x0c, 0x0c, 0x0c) {
		t.Errorf("Palette().Background = %v", p.Background)
	}
	if p.Gridline != core.ColorGray {
		t.Errorf("Palette().Gridline = %v, want gray", p.Gridline)
	}
}
