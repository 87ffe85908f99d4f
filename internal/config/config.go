package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/shineylabel/internal/geom"
	"github.com/example/shineylabel/internal/history"
	"github.com/example/shineylabel/internal/store"
	"github.com/example/shineylabel/internal/theme"
	"github.com/example/shineylabel/internal/viewport"
)

// Notify holds notification settings.
type Notify struct {
	Save   bool
	Export bool
	Copy   bool
}

// Editor holds the interaction settings handed to the annotation store.
type Editor struct {
	HistoryCapacity int
	HandleSize      float64
	EdgeThreshold   float64
	HitTolerance    float64
	ZoomMin         float64
	ZoomMax         float64
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	Editor  Editor
	Notify  Notify
	Themes  map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // Default to empty to allow fallback to Env/Default
		Editor: Editor{
			HistoryCapacity: history.DefaultCapacity,
			HandleSize:      geom.DefaultHandleSize,
			EdgeThreshold:   store.DefaultEdgeThreshold,
			HitTolerance:    store.DefaultHitTolerance,
			ZoomMin:         viewport.DefaultZoomMin,
			ZoomMax:         viewport.DefaultZoomMax,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// StoreOptions converts the editor settings to store options.
func (c *Config) StoreOptions() []store.Option {
	e := c.Editor
	return []store.Option{
		store.WithHistoryCapacity(e.HistoryCapacity),
		store.WithHandleSize(e.HandleSize),
		store.WithEdgeThreshold(e.EdgeThreshold),
		store.WithHitTolerance(e.HitTolerance),
		store.WithZoomRange(e.ZoomMin, e.ZoomMax),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[editor]\n")
	fmt.Fprintf(&sb, "history_capacity = %d\n", c.Editor.HistoryCapacity)
	fmt.Fprintf(&sb, "handle_size = %g\n", c.Editor.HandleSize)
	fmt.Fprintf(&sb, "edge_threshold = %g\n", c.Editor.EdgeThreshold)
	fmt.Fprintf(&sb, "hit_tolerance = %g\n", c.Editor.HitTolerance)
	fmt.Fprintf(&sb, "zoom_min = %g\n", c.Editor.ZoomMin)
	fmt.Fprintf(&sb, "zoom_max = %g\n", c.Editor.ZoomMax)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		_ = theme.Write(&sb, c.Themes[name])
		sb.WriteString("\n")
	}

	return sb.String()
}
