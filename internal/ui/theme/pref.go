package theme

import (
	"context"
	"fmt"

	"github.com/abhisek/devtutor/internal/store"
)

const prefKey = "ui.theme"

// Prefs persists the chosen theme name.
type Prefs struct {
	kv store.KV
}

func NewPrefs(kv store.KV) *Prefs {
	return &Prefs{kv: kv}
}

// Load returns the saved theme name, or fallback when nothing valid is stored.
func (p *Prefs) Load(ctx context.Context, fallback Name) (Name, error) {
	v, ok, err := p.kv.Get(ctx, prefKey)
	if err != nil {
		return fallback, fmt.Errorf("load theme: %w", err)
	}
	if !ok {
		return fallback, nil
	}
	switch Name(v) {
	case Light, Dark:
		return Name(v), nil
	}
	return fallback, nil
}

func (p *Prefs) Save(ctx context.Context, name Name) error {
	if err := p.kv.Set(ctx, prefKey, string(name)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}
