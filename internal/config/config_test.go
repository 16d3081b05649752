package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestDefault_Valid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Render.Width != 800 || cfg.Render.Height != 300 {
		t.Errorf("Render size = %dx%d, want 800x300", cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Render.Window != nil {
		t.Errorf("Render.Window = %+v, want nil", cfg.Render.Window)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
render:
  width: 400
  window:
    time: [1, 3]
    value: [-1, 1]
  colors:
    curve: "#00ff00"
edit:
  tolerance: 2.5
  default_easing: cubic
logging:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Render.Width != 400 {
		t.Errorf("Render.Width = %d, want 400", cfg.Render.Width)
	}
	// unset fields keep their defaults
	if cfg.Render.Height != 300 {
		t.Errorf("Render.Height = %d, want 300", cfg.Render.Height)
	}
	if cfg.Render.Colors.Background != "#1e1e1e" {
		t.Errorf("Render.Colors.Background = %q, want %q", cfg.Render.Colors.Background, "#1e1e1e")
	}
	if w := cfg.Render.Window; w == nil || w.Time != [2]float64{1, 3} || w.Value != [2]float64{-1, 1} {
		t.Errorf("Render.Window = %+v", w)
	}
	if cfg.Render.Colors.Curve != "#00ff00" {
		t.Errorf("Render.Colors.Curve = %q, want %q", cfg.Render.Colors.Curve, "#00ff00")
	}
	if cfg.Edit.Tolerance != 2.5 || cfg.Edit.DefaultEasing != "cubic" {
		t.Errorf("Edit = %+v", cfg.Edit)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "invalid: [yaml: content")
	_, err := Load(path)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := writeConfig(t, `
render:
  width: 0
  window:
    time: [3, 1]
    value: [0, 1]
  colors:
    key: "red"
edit:
  default_easing: bounce
logging:
  format: xml
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected validation error, got nil")
	}
	for _, want := range []string{
		"render.width",
		"render.window.time",
		"render.colors.key",
		"edit.default_easing",
		"logging.format",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
	if strings.Contains(err.Error(), "render.window.value") {
		t.Errorf("error %q mentions a valid field", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AUTOCURVE_LOGGING_LEVEL", "warn")
	t.Setenv("AUTOCURVE_RENDER_WIDTH", "1024")
	t.Setenv("AUTOCURVE_EDIT_TOLERANCE", "0.25")
	t.Setenv("AUTOCURVE_EDIT_DEFAULT_EASING", "hold")

	path := writeConfig(t, "render:\n  width: 400\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "warn")
	}
	if cfg.Render.Width != 1024 {
		t.Errorf("Render.Width = %d, want 1024", cfg.Render.Width)
	}
	if cfg.Edit.Tolerance != 0.25 {
		t.Errorf("Edit.Tolerance = %g, want 0.25", cfg.Edit.Tolerance)
	}
	if cfg.Edit.DefaultEasing != "hold" {
		t.Errorf("Edit.DefaultEasing = %q, want %q", cfg.Edit.DefaultEasing, "hold")
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("AUTOCURVE_RENDER_HEIGHT", "tall")
	if _, err := Load(""); err == nil {
		t.Error("Load() expected error for non-numeric height, got nil")
	}
}
