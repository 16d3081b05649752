// Package config loads the settings of the autocurve tool.
//
// Settings are resolved in this order:
//  1. Default values
//  2. YAML file values, if a file is given
//  3. Environment variables (AUTOCURVE_SECTION_KEY)
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Edit    EditConfig    `yaml:"edit"`
	Logging LoggingConfig `yaml:"logging"`
}

// RenderConfig controls the SVG and PNG previews.
type RenderConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Window restricts the preview to part of the curve. The whole curve is
	// shown when it is nil.
	Window *WindowConfig `yaml:"window"`

	LineWidth float64 `yaml:"line_width"`
	KeyRadius float64 `yaml:"key_radius"`

	Colors ColorConfig `yaml:"colors"`
	Grid   GridConfig  `yaml:"grid"`
}

// WindowConfig is a view window in curve space.
type WindowConfig struct {
	Time  [2]float64 `yaml:"time,flow"`
	Value [2]float64 `yaml:"value,flow"`
}

// ColorConfig holds hex colours (#rgb, #rrggbb or #rrggbbaa).
type ColorConfig struct {
	Background string `yaml:"background"`
	Curve      string `yaml:"curve"`
	LeadLine   string `yaml:"lead_line"`
	Key        string `yaml:"key"`
	Grid       string `yaml:"grid"`
}

// GridConfig mirrors automation.GridOptions.
type GridConfig struct {
	Enabled      bool    `yaml:"enabled"`
	MinGap       float64 `yaml:"min_gap"`
	FadeGap      float64 `yaml:"fade_gap"`
	Subdivisions int     `yaml:"subdivisions"`
}

// EditConfig contains defaults for editing commands.
type EditConfig struct {
	// Simplification tolerance in view units.
	Tolerance float64 `yaml:"tolerance"`
	// Easing of inserted keys: linear, cubic or hold.
	DefaultEasing string `yaml:"default_easing"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load builds the configuration. An empty path skips the file and uses
// defaults and environment variables only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with the default settings.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Width:     800,
			Height:    300,
			LineWidth: 2,
			KeyRadius: 4,
			Colors: ColorConfig{
				Background: "#1e1e1e",
				Curve:      "#f0a030",
				LeadLine:   "#808080",
				Key:        "#e0e0e0",
				Grid:       "#3c3c3c",
			},
			Grid: GridConfig{
				Enabled:      true,
				MinGap:       10,
				FadeGap:      30,
				Subdivisions: 10,
			},
		},
		Edit: EditConfig{
			Tolerance:     1,
			DefaultEasing: "linear",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the
// configuration.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("AUTOCURVE_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("AUTOCURVE_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("AUTOCURVE_LOGGING_OUTPUT"); v != "" {
		cfg.Logging.Output = v
	}
	if v := os.Getenv("AUTOCURVE_EDIT_DEFAULT_EASING"); v != "" {
		cfg.Edit.DefaultEasing = v
	}

	ints := map[string]*int{
		"AUTOCURVE_RENDER_WIDTH":  &cfg.Render.Width,
		"AUTOCURVE_RENDER_HEIGHT": &cfg.Render.Height,
	}
	for name, dst := range ints {
		if v := os.Getenv(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = n
		}
	}
	if v := os.Getenv("AUTOCURVE_EDIT_TOLERANCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("AUTOCURVE_EDIT_TOLERANCE: %w", err)
		}
		cfg.Edit.Tolerance = f
	}
	return nil
}

var hexColor = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	r := c.Render
	if r.Width < 1 || r.Height < 1 {
		errs = append(errs, "render.width and render.height must be positive")
	}
	if r.LineWidth <= 0 {
		errs = append(errs, "render.line_width must be positive")
	}
	if r.KeyRadius < 0 {
		errs = append(errs, "render.key_radius must not be negative")
	}
	if w := r.Window; w != nil {
		if !(w.Time[0] < w.Time[1]) {
			errs = append(errs, "render.window.time must be an increasing pair")
		}
		if !(w.Value[0] < w.Value[1]) {
			errs = append(errs, "render.window.value must be an increasing pair")
		}
	}
	colors := map[string]string{
		"background": r.Colors.Background,
		"curve":      r.Colors.Curve,
		"lead_line":  r.Colors.LeadLine,
		"key":        r.Colors.Key,
		"grid":       r.Colors.Grid,
	}
	for _, name := range []string{"background", "curve", "lead_line", "key", "grid"} {
		if !hexColor.MatchString(colors[name]) {
			errs = append(errs, fmt.Sprintf("render.colors.%s: %q is not a hex colour", name, colors[name]))
		}
	}
	if r.Grid.Enabled && (r.Grid.MinGap <= 0 || r.Grid.FadeGap <= r.Grid.MinGap || r.Grid.Subdivisions < 1) {
		errs = append(errs, "render.grid needs 0 < min_gap < fade_gap and subdivisions ≥ 1")
	}

	if c.Edit.Tolerance < 0 {
		errs = append(errs, "edit.tolerance must not be negative")
	}
	switch c.Edit.DefaultEasing {
	case "linear", "cubic", "hold":
	default:
		errs = append(errs, "edit.default_easing must be linear, cubic or hold")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, "logging.level must be debug, info, warn or error")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, "logging.format must be json or text")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}
