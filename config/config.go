// Package config loads engine and host settings from TOML or YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/chrisuehlinger/dropzone/geom"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Duration is a time.Duration written as a Go duration string ("50ms").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the full set of settings.
type Config struct {
	Drag   DragConfig   `toml:"drag" yaml:"drag"`
	List   ListConfig   `toml:"list" yaml:"list"`
	Scroll ScrollConfig `toml:"scroll" yaml:"scroll"`
	Log    LogConfig    `toml:"log" yaml:"log"`
}

// DragConfig configures drag/drop coordinators.
type DragConfig struct {
	Hysteresis       float64 `toml:"hysteresis" yaml:"hysteresis"`
	InitDragDistance float64 `toml:"init_drag_distance" yaml:"init_drag_distance"`
	DummyMinArea     float64 `toml:"dummy_min_area" yaml:"dummy_min_area"`
	DragClass        string  `toml:"drag_class" yaml:"drag_class"`
	SourceClass      string  `toml:"source_class" yaml:"source_class"`
	TargetClass      string  `toml:"target_class" yaml:"target_class"`
	// Limits is [left, top, width, height]; NaN leaves an axis free.
	Limits []float64 `toml:"limits" yaml:"limits"`
}

// ListConfig configures list reorder groups.
type ListConfig struct {
	Hysteresis          float64 `toml:"hysteresis" yaml:"hysteresis"`
	HoverClass          string  `toml:"hover_class" yaml:"hover_class"`
	ItemHoverClass      string  `toml:"item_hover_class" yaml:"item_hover_class"`
	CurrentClass        string  `toml:"current_class" yaml:"current_class"`
	ProxyClass          string  `toml:"proxy_class" yaml:"proxy_class"`
	UpdateWhileDragging bool    `toml:"update_while_dragging" yaml:"update_while_dragging"`
	AlwaysDisplayed     bool    `toml:"always_displayed" yaml:"always_displayed"`
}

// ScrollConfig configures auto-scroll.
type ScrollConfig struct {
	Margin     float64  `toml:"margin" yaml:"margin"`
	Step       float64  `toml:"step" yaml:"step"`
	Period     Duration `toml:"period" yaml:"period"`
	Constrain  bool     `toml:"constrain" yaml:"constrain"`
	Horizontal bool     `toml:"horizontal" yaml:"horizontal"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `toml:"level" yaml:"level"`
	Development bool   `toml:"development" yaml:"development"`
	// File receives log output instead of stderr when set.
	File string `toml:"file" yaml:"file"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Drag: DragConfig{
			InitDragDistance: 5,
			DummyMinArea:     10,
			DragClass:        "dragging",
			SourceClass:      "drag-source",
			TargetClass:      "drop-target",
		},
		List: ListConfig{
			Hysteresis:          3,
			HoverClass:          "list-hover",
			ItemHoverClass:      "item-hover",
			ProxyClass:          "list-proxy",
			UpdateWhileDragging: true,
		},
		Scroll: ScrollConfig{
			Margin:     32,
			Step:       8,
			Period:     Duration(50 * time.Millisecond),
			Horizontal: true,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path, choosing the format from its extension. Fields the file
// leaves out keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the given format (".toml", ".yaml" or ".yml", with
// or without the dot) over the defaults and validates the result.
func Parse(data []byte, format string) (Config, error) {
	cfg := Default()
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("%w: unknown key %s", ErrInvalid, undecoded[0])
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, err
		}
	default:
		return Config{}, fmt.Errorf("%w: unsupported format %q", ErrInvalid, format)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting out of range.
func (c Config) Validate() error {
	nonNegative := []struct {
		name string
		v    float64
	}{
		{"drag.hysteresis", c.Drag.Hysteresis},
		{"drag.init_drag_distance", c.Drag.InitDragDistance},
		{"drag.dummy_min_area", c.Drag.DummyMinArea},
		{"list.hysteresis", c.List.Hysteresis},
		{"scroll.margin", c.Scroll.Margin},
	}
	for _, f := range nonNegative {
		if f.v < 0 || math.IsNaN(f.v) {
			return fmt.Errorf("%w: %s must be >= 0, got %v", ErrInvalid, f.name, f.v)
		}
	}
	if c.Scroll.Step <= 0 {
		return fmt.Errorf("%w: scroll.step must be > 0, got %v", ErrInvalid, c.Scroll.Step)
	}
	if c.Scroll.Period <= 0 {
		return fmt.Errorf("%w: scroll.period must be > 0, got %v", ErrInvalid, c.Scroll.Period.Std())
	}
	if _, err := c.Drag.LimitsRect(); err != nil {
		return fmt.Errorf("%w: drag.limits: %w", ErrInvalid, err)
	}
	if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	return nil
}

// LimitsRect returns the drag limits, unbounded when none are set.
func (d DragConfig) LimitsRect() (geom.Rect, error) {
	if len(d.Limits) == 0 {
		return geom.Unbounded(), nil
	}
	return geom.RectFromSlice(d.Limits)
}
