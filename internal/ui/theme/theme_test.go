package theme

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/abhisek/devtutor/internal/store"
)

func TestNewDefaultsToDark(t *testing.T) {
	if got := New("sepia").Name(); got != Dark {
		t.Errorf("New(sepia) = %q, want dark", got)
	}
	if got := New(Light).Name(); got != Light {
		t.Errorf("New(light) = %q, want light", got)
	}
}

func TestToggle(t *testing.T) {
	th := New(Light)
	if got := th.Toggle(); got != Dark || !th.IsDark() {
		t.Fatalf("first Toggle = %q, IsDark %v", got, th.IsDark())
	}
	if got := th.Toggle(); got != Light || th.IsDark() {
		t.Fatalf("second Toggle = %q, IsDark %v", got, th.IsDark())
	}
}

func TestPalettesDiffer(t *testing.T) {
	light := New(Light).Palette()
	dark := New(Dark).Palette()
	if light.Background == dark.Background {
		t.Error("light and dark backgrounds should differ")
	}
	if light.Primary == dark.Primary {
		t.Error("light and dark primary colors should differ")
	}
}

func TestTrackColor(t *testing.T) {
	th := New(Dark)
	p := th.Palette()
	if th.TrackColor("programming") != p.Programming {
		t.Error("programming track should use the programming color")
	}
	if th.TrackColor("frontend") != p.Frontend {
		t.Error("frontend track should use the frontend color")
	}
	if th.TrackColor("") != p.Frontend {
		t.Error("unknown track should fall back to the frontend color")
	}
}

func TestPrefsRoundTrip(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "theme.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()
	prefs := NewPrefs(s.KV())

	got, err := prefs.Load(ctx, Dark)
	if err != nil || got != Dark {
		t.Fatalf("Load empty = %q, %v; want dark", got, err)
	}

	if err := prefs.Save(ctx, Light); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = prefs.Load(ctx, Dark)
	if err != nil || got != Light {
		t.Errorf("Load = %q, %v; want light", got, err)
	}

	if err := s.KV().Set(ctx, prefKey, "neon"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, _ := prefs.Load(ctx, Dark); got != Dark {
		t.Errorf("Load with invalid value = %q, want fallback", got)
	}
}
