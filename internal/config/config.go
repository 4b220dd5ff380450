package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/marcus/floatui/pkg/floating/dismiss"
	"github.com/marcus/floatui/pkg/floating/hover"
	"github.com/marcus/floatui/pkg/floating/listnav"
)

const configFile = ".floatui/config.json"

// HoverConfig holds hover interaction defaults.
type HoverConfig struct {
	OpenDelayMs  int     `json:"openDelayMs"`
	CloseDelayMs int     `json:"closeDelayMs"`
	RestMs       int     `json:"restMs"`
	MouseOnly    bool    `json:"mouseOnly"`
	SafePolygon  bool    `json:"safePolygon"`
	Buffer       float64 `json:"buffer"`
}

// DismissConfig holds dismiss defaults.
type DismissConfig struct {
	EscapeKey      bool `json:"escapeKey"`
	OutsidePress   bool `json:"outsidePress"`
	ReferencePress bool `json:"referencePress"`
	AncestorScroll bool `json:"ancestorScroll"`
	Bubbles        bool `json:"bubbles"`
}

// ListConfig holds list navigation and typeahead defaults.
type ListConfig struct {
	Loop             bool `json:"loop"`
	Virtual          bool `json:"virtual"`
	TypeaheadResetMs int  `json:"typeaheadResetMs"`
	Fuzzy            bool `json:"fuzzy"`
}

// Config is the persisted CLI configuration.
type Config struct {
	Hover   HoverConfig   `json:"hover"`
	Dismiss DismissConfig `json:"dismiss"`
	List    ListConfig    `json:"list"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Hover: HoverConfig{
			CloseDelayMs: 100,
			SafePolygon:  true,
			Buffer:       hover.DefaultBuffer,
		},
		Dismiss: DismissConfig{
			EscapeKey:    true,
			OutsidePress: true,
		},
		List: ListConfig{
			Loop:             true,
			TypeaheadResetMs: int(listnav.DefaultResetDelay / time.Millisecond),
		},
	}
}

// Load reads the config from disk. Missing keys keep their defaults.
func Load(baseDir string) (*Config, error) {
	configPath := filepath.Join(baseDir, configFile)

	cfg := Default()
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configFile, err)
	}

	return cfg, nil
}

// Save writes the config to disk
func Save(baseDir string, cfg *Config) error {
	configPath := filepath.Join(baseDir, configFile)

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// field binds a dotted key to one setting.
type field struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func intField(p func(c *Config) *int) field {
	return field{
		get: func(c *Config) string { return strconv.Itoa(*p(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return fmt.Errorf("want a non-negative integer, got %q", v)
			}
			*p(c) = n
			return nil
		},
	}
}

func boolField(p func(c *Config) *bool) field {
	return field{
		get: func(c *Config) string { return strconv.FormatBool(*p(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("want true or false, got %q", v)
			}
			*p(c) = b
			return nil
		},
	}
}

func floatField(p func(c *Config) *float64) field {
	return field{
		get: func(c *Config) string { return strconv.FormatFloat(*p(c), 'g', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("want a non-negative number, got %q", v)
			}
			*p(c) = f
			return nil
		},
	}
}

var fields = map[string]field{
	"hover.openDelayMs":      intField(func(c *Config) *int { return &c.Hover.OpenDelayMs }),
	"hover.closeDelayMs":     intField(func(c *Config) *int { return &c.Hover.CloseDelayMs }),
	"hover.restMs":           intField(func(c *Config) *int { return &c.Hover.RestMs }),
	"hover.mouseOnly":        boolField(func(c *Config) *bool { return &c.Hover.MouseOnly }),
	"hover.safePolygon":      boolField(func(c *Config) *bool { return &c.Hover.SafePolygon }),
	"hover.buffer":           floatField(func(c *Config) *float64 { return &c.Hover.Buffer }),
	"dismiss.escapeKey":      boolField(func(c *Config) *bool { return &c.Dismiss.EscapeKey }),
	"dismiss.outsidePress":   boolField(func(c *Config) *bool { return &c.Dismiss.OutsidePress }),
	"dismiss.referencePress": boolField(func(c *Config) *bool { return &c.Dismiss.ReferencePress }),
	"dismiss.ancestorScroll": boolField(func(c *Config) *bool { return &c.Dismiss.AncestorScroll }),
	"dismiss.bubbles":        boolField(func(c *Config) *bool { return &c.Dismiss.Bubbles }),
	"list.loop":              boolField(func(c *Config) *bool { return &c.List.Loop }),
	"list.virtual":           boolField(func(c *Config) *bool { return &c.List.Virtual }),
	"list.typeaheadResetMs":  intField(func(c *Config) *int { return &c.List.TypeaheadResetMs }),
	"list.fuzzy":             boolField(func(c *Config) *bool { return &c.List.Fuzzy }),
}

// Keys returns every settable key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of key as text.
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("unknown config key %q", key)
	}
	return f.get(c), nil
}

// Set parses value into key.
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := f.set(c, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// Set updates one key in the config on disk.
func Set(baseDir, key, value string) error {
	cfg, err := Load(baseDir)
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	return Save(baseDir, cfg)
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// HoverOptions converts the hover section. The safe polygon handler is
// attached by the caller when SafePolygon is set.
func (c *Config) HoverOptions() hover.Options {
	opts := hover.DefaultOptions()
	opts.Delay = hover.Delay{Open: ms(c.Hover.OpenDelayMs), Close: ms(c.Hover.CloseDelayMs)}
	opts.Rest = ms(c.Hover.RestMs)
	opts.MouseOnly = c.Hover.MouseOnly
	if c.Hover.SafePolygon {
		sp := hover.NewSafePolygon()
		sp.Buffer = c.Hover.Buffer
		opts.HandleClose = sp
	}
	return opts
}

// DismissOptions converts the dismiss section.
func (c *Config) DismissOptions() dismiss.Options {
	return dismiss.Options{
		Enabled:        true,
		EscapeKey:      c.Dismiss.EscapeKey,
		OutsidePress:   c.Dismiss.OutsidePress,
		ReferencePress: c.Dismiss.ReferencePress,
		AncestorScroll: c.Dismiss.AncestorScroll,
		Bubbles:        c.Dismiss.Bubbles,
	}
}

// ListOptions converts the list section.
func (c *Config) ListOptions() listnav.Options {
	opts := listnav.DefaultOptions()
	opts.Loop = c.List.Loop
	if c.List.Virtual {
		opts.Mode = listnav.VirtualFocus
	}
	return opts
}

// TypeaheadOptions converts the typeahead settings.
func (c *Config) TypeaheadOptions() listnav.TypeaheadOptions {
	opts := listnav.TypeaheadOptions{Enabled: true, ResetDelay: ms(c.List.TypeaheadResetMs)}
	if c.List.Fuzzy {
		opts.FindMatch = listnav.FuzzyMatch
	}
	return opts
}
