package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marcus/floatui/pkg/floating/hover"
	"github.com/marcus/floatui/pkg/floating/listnav"
)

func TestLoad(t *testing.T) {
	t.Run("non-existent file returns defaults", func(t *testing.T) {
		dir := t.TempDir()

		cfg, err := Load(dir)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if *cfg != *Default() {
			t.Errorf("Load = %+v, want defaults %+v", cfg, Default())
		}
	})

	t.Run("partial file keeps defaults for missing keys", func(t *testing.T) {
		dir := t.TempDir()
		configDir := filepath.Join(dir, ".floatui")
		if err := os.MkdirAll(configDir, 0755); err != nil {
			t.Fatalf("setup: mkdir failed: %v", err)
		}
		data := []byte(`{"hover": {"openDelayMs": 250}}`)
		if err := os.WriteFile(filepath.Join(configDir, "config.json"), data, 0644); err != nil {
			t.Fatalf("setup: write failed: %v", err)
		}

		cfg, err := Load(dir)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Hover.OpenDelayMs != 250 {
			t.Errorf("OpenDelayMs: got %d, want 250", cfg.Hover.OpenDelayMs)
		}
		if !cfg.Dismiss.EscapeKey {
			t.Error("EscapeKey: got false, want default true")
		}
		if cfg.List.TypeaheadResetMs != 1000 {
			t.Errorf("TypeaheadResetMs: got %d, want 1000", cfg.List.TypeaheadResetMs)
		}
	})

	t.Run("malformed file returns error", func(t *testing.T) {
		dir := t.TempDir()
		configDir := filepath.Join(dir, ".floatui")
		if err := os.MkdirAll(configDir, 0755); err != nil {
			t.Fatalf("setup: mkdir failed: %v", err)
		}
		if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("{not json"), 0644); err != nil {
			t.Fatalf("setup: write failed: %v", err)
		}

		if _, err := Load(dir); err == nil {
			t.Error("expected error for malformed config")
		}
	})
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Hover.RestMs = 40
	cfg.List.Fuzzy = true

	if err := Save(dir, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".floatui", "config.json")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *got != *cfg {
		t.Errorf("Load after Save = %+v, want %+v", got, cfg)
	}
}

func TestSetAndGet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    string
		wantErr bool
	}{
		{key: "hover.openDelayMs", value: "120", want: "120"},
		{key: "hover.buffer", value: "1.5", want: "1.5"},
		{key: "dismiss.bubbles", value: "true", want: "true"},
		{key: "list.virtual", value: "1", want: "true"},
		{key: "hover.restMs", value: "-5", wantErr: true},
		{key: "list.loop", value: "maybe", wantErr: true},
		{key: "nope.key", value: "1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			dir := t.TempDir()
			err := Set(dir, tt.key, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Set(%q, %q) succeeded, want error", tt.key, tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			cfg, err := Load(dir)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestKeysCoverEveryField(t *testing.T) {
	cfg := Default()
	for _, key := range Keys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Get(%q) failed: %v", key, err)
		}
	}
	if len(Keys()) != len(fields) {
		t.Errorf("Keys() has %d entries, want %d", len(Keys()), len(fields))
	}
}

func TestOptionConversions(t *testing.T) {
	cfg := Default()
	cfg.Hover.OpenDelayMs = 200
	cfg.Hover.Buffer = 2
	cfg.List.Virtual = true
	cfg.List.Fuzzy = true
	cfg.Dismiss.Bubbles = true

	h := cfg.HoverOptions()
	if h.Delay.Open != 200*time.Millisecond || h.Delay.Close != 100*time.Millisecond {
		t.Errorf("Delay = %+v, want open 200ms close 100ms", h.Delay)
	}
	sp, ok := h.HandleClose.(*hover.SafePolygon)
	if !ok || sp.Buffer != 2 {
		t.Errorf("HandleClose = %#v, want a safe polygon with buffer 2", h.HandleClose)
	}

	if d := cfg.DismissOptions(); !d.Enabled || !d.Bubbles || !d.EscapeKey {
		t.Errorf("DismissOptions = %+v", d)
	}
	if l := cfg.ListOptions(); l.Mode != listnav.VirtualFocus || !l.Loop {
		t.Errorf("ListOptions mode = %v loop = %v, want virtual looping", l.Mode, l.Loop)
	}
	if ta := cfg.TypeaheadOptions(); ta.FindMatch == nil || ta.ResetDelay != time.Second {
		t.Errorf("TypeaheadOptions = %+v", ta)
	}

	cfg.Hover.SafePolygon = false
	if cfg.HoverOptions().HandleClose != nil {
		t.Error("HandleClose should be nil without the safe polygon")
	}
}
