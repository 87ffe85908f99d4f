package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/shineylabel/internal/history"
	"github.com/example/shineylabel/internal/store"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = "/tmp/labels"

[editor]
history_capacity = 20
handle_size = 10
zoom_max = 8

[notify]
save = true
export = false
copy = true

[theme.my_custom_theme]
Stroke = #111111
Selected: teal
FillOpacity = 0.4
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/labels" {
		t.Errorf("Expected save_dir '/tmp/labels', got '%s'", cfg.SaveDir)
	}
	if cfg.Editor.HistoryCapacity != 20 || cfg.Editor.HandleSize != 10 || cfg.Editor.ZoomMax != 8 {
		t.Errorf("Unexpected editor settings: %+v", cfg.Editor)
	}
	if cfg.Editor.ZoomMin != New().Editor.ZoomMin {
		t.Errorf("Missing editor keys should keep defaults: %+v", cfg.Editor)
	}
	if !cfg.Notify.Save || cfg.Notify.Export || !cfg.Notify.Copy {
		t.Errorf("Unexpected notify settings: %+v", cfg.Notify)
	}

	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Stroke.R != 0x11 || th.Stroke.G != 0x11 || th.Stroke.B != 0x11 {
		t.Errorf("Unexpected Stroke color: %+v", th.Stroke)
	}
	if th.Selected.G != 0x80 || th.FillOpacity != 0.4 {
		t.Errorf("Unexpected theme values: %+v", th)
	}
	if th.Name != "my_custom_theme" {
		t.Errorf("Theme name = %q", th.Name)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"[notify]\nsave = maybe\n",
		"[editor]\nhistory_capacity = lots\n",
		"[editor]\nzoom_min = tiny\n",
		"[theme.x]\nStroke = #12\n",
	}
	for _, in := range tests {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Errorf("Parse(%q) expected error", in)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/labels

[editor]
history_capacity = 75
edge_threshold = 6.5

[notify]
save = true
export = true
copy = false

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("SaveDir mismatch: %q vs %q", cfg.SaveDir, cfg2.SaveDir)
	}
	if cfg.Editor != cfg2.Editor {
		t.Errorf("Editor mismatch: %+v vs %+v", cfg.Editor, cfg2.Editor)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestStoreOptions(t *testing.T) {
	cfg := New()
	cfg.Editor.HistoryCapacity = 2
	cfg.Editor.ZoomMax = 2
	s := store.New(cfg.StoreOptions()...)
	if _, max := s.ZoomRange(); max != 2 {
		t.Errorf("zoom max = %v", max)
	}
	if cfg := New(); cfg.Editor.HistoryCapacity != history.DefaultCapacity {
		t.Errorf("default capacity = %d", cfg.Editor.HistoryCapacity)
	}
}

func TestLoaderPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	wd := t.TempDir()
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(wd); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	l := NewLoader("dev", "")
	if p := l.GetConfigPath(); p != "" {
		t.Fatalf("unexpected config path %q", p)
	}
	want := filepath.Join(home, ".config", "shineylabel", "config.rc")
	if p, err := l.SavePath(); err != nil || p != want {
		t.Fatalf("SavePath = %q, %v", p, err)
	}

	cfg := New()
	cfg.Theme = "dark"
	if err := Save(cfg, want); err != nil {
		t.Fatal(err)
	}
	if p := l.GetConfigPath(); p != want {
		t.Fatalf("GetConfigPath = %q, want %q", p, want)
	}

	local := filepath.Join(wd, ".shineylabelrc")
	if err := os.WriteFile(local, []byte("theme = high_contrast\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	loaded, err := l.Load()
	if err != nil || loaded.Theme != "high_contrast" {
		t.Fatalf("dev build should prefer %s: %+v %v", local, loaded, err)
	}
	if p := NewLoader("1.0.0", "").GetConfigPath(); p != want {
		t.Fatalf("release build path = %q", p)
	}
	if p := NewLoader("1.0.0", local).GetConfigPath(); p != local {
		t.Fatalf("override path = %q", p)
	}
}
