// Package config loads LocalPaint settings from an optional TOML file and
// command-line flags.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/gg"
	"github.com/pelletier/go-toml/v2"

	"LocalPaint/internal/export"
	"LocalPaint/internal/raster"
	"LocalPaint/internal/state"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Canvas  Canvas  `toml:"canvas"`
	Brush   Brush   `toml:"brush"`
	History History `toml:"history"`
	Save    Save    `toml:"save"`
	Share   Share   `toml:"share"`
	Log     Log     `toml:"log"`
}

type Canvas struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Background string `toml:"background"`
}

type Brush struct {
	Color string `toml:"color"`
	Width int    `toml:"width"`
}

type History struct {
	// Limit caps the number of snapshots kept; 0 keeps all of them.
	Limit int `toml:"limit"`
}

type Save struct {
	Dir  string `toml:"dir"`
	Name string `toml:"name"`
}

type Share struct {
	Enabled   bool `toml:"enabled"`
	Port      int  `toml:"port"`
	Advertise bool `toml:"advertise"`
}

type Log struct {
	Level string `toml:"level"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Canvas: Canvas{
			Width:      raster.DefaultWidth,
			Height:     raster.DefaultHeight,
			Background: "#ffffff",
		},
		Brush: Brush{
			Color: "#000000",
			Width: state.DefaultLineWidth,
		},
		Save: Save{
			Dir:  ".",
			Name: state.DefaultFileName,
		},
		Share: Share{
			Port:      8888,
			Advertise: true,
		},
		Log: Log{Level: "info"},
	}
}

// Parse overlays TOML data on the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("%w: %s", ErrInvalid, strict.String())
		}
		return cfg, fmt.Errorf("config: parse: %w", err)
	}
	return cfg, nil
}

// Load reads path, or returns the defaults when path is empty.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// RegisterFlags binds command-line overrides for the most used settings.
// Flag defaults are the current values of c, so flags win over the file
// when c is loaded before fs is parsed.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Canvas.Width, "width", c.Canvas.Width, "canvas width in pixels")
	fs.IntVar(&c.Canvas.Height, "height", c.Canvas.Height, "canvas height in pixels")
	fs.StringVar(&c.Brush.Color, "color", c.Brush.Color, "initial brush color (#rrggbb)")
	fs.IntVar(&c.Brush.Width, "brush-width", c.Brush.Width, "initial brush width (1-20)")
	fs.IntVar(&c.History.Limit, "history", c.History.Limit, "maximum undo snapshots, 0 for no limit")
	fs.StringVar(&c.Save.Dir, "save-dir", c.Save.Dir, "directory Save writes to")
	fs.StringVar(&c.Save.Name, "save-name", c.Save.Name, "file Save writes (.png, .jpg, .bmp or .pdf)")
	fs.BoolVar(&c.Share.Enabled, "share", c.Share.Enabled, "serve a read-only live view over websocket")
	fs.IntVar(&c.Share.Port, "share-port", c.Share.Port, "port for the live view")
	fs.StringVar(&c.Log.Level, "log-level", c.Log.Level, "debug, info, warn or error")
}

// FromArgs builds the configuration for a command line: the file named by
// -config (if any) overlaid on the defaults, then every flag given
// explicitly. The result is validated.
func FromArgs(name string, args []string) (Config, error) {
	cfg := Default()
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fs.String("config", "", "path to a TOML config file")
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if *path == "" {
		return cfg, cfg.Validate()
	}

	fileCfg, err := Load(*path)
	if err != nil {
		return fileCfg, err
	}
	overrides := flag.NewFlagSet(name, flag.ContinueOnError)
	fileCfg.RegisterFlags(overrides)
	var setErr error
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" || setErr != nil {
			return
		}
		if err := overrides.Set(f.Name, f.Value.String()); err != nil {
			setErr = fmt.Errorf("config: flag -%s: %w", f.Name, err)
		}
	})
	if setErr != nil {
		return fileCfg, setErr
	}
	return fileCfg, fileCfg.Validate()
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas size %dx%d must be positive", c.Canvas.Width, c.Canvas.Height))
	}
	if !validHex(c.Canvas.Background) {
		errs = append(errs, fmt.Errorf("canvas.background %q is not a hex color", c.Canvas.Background))
	}
	if !validHex(c.Brush.Color) {
		errs = append(errs, fmt.Errorf("brush.color %q is not a hex color", c.Brush.Color))
	}
	if c.Brush.Width < state.MinLineWidth || c.Brush.Width > state.MaxLineWidth {
		errs = append(errs, fmt.Errorf("brush.width %d outside [%d, %d]",
			c.Brush.Width, state.MinLineWidth, state.MaxLineWidth))
	}
	if c.History.Limit < 0 {
		errs = append(errs, fmt.Errorf("history.limit %d is negative", c.History.Limit))
	}
	if c.Save.Name == "" {
		errs = append(errs, errors.New("save.name is empty"))
	} else if _, err := export.FormatFromPath(c.Save.Name); err != nil {
		errs = append(errs, fmt.Errorf("save.name: %w", err))
	}
	if c.Share.Port <= 0 || c.Share.Port > 65535 {
		errs = append(errs, fmt.Errorf("share.port %d out of range", c.Share.Port))
	}
	if _, ok := levels[strings.ToLower(c.Log.Level)]; !ok {
		errs = append(errs, fmt.Errorf("log.level %q unknown", c.Log.Level))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// LogLevel returns the configured level, falling back to info.
func (c Config) LogLevel() slog.Level {
	if l, ok := levels[strings.ToLower(c.Log.Level)]; ok {
		return l
	}
	return slog.LevelInfo
}

func (c Config) BackgroundColor() color.Color {
	return gg.Hex(c.Canvas.Background).Color()
}

func (c Config) BrushColor() color.Color {
	return gg.Hex(c.Brush.Color).Color()
}

func validHex(s string) bool {
	s = strings.TrimPrefix(s, "#")
	switch len(s) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
