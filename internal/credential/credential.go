// Package credential persists the API key used for remote question
// generation.
package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/devtutor/internal/llm"
	"github.com/abhisek/devtutor/internal/store"
)

// storageKey is the KV entry holding the generation API key.
const storageKey = "credential.generation_api_key"

// ErrEmptyCredential is returned when an empty key is stored.
var ErrEmptyCredential = errors.New("credential is empty")

// Source supplies a credential. ok is false when none is configured.
type Source interface {
	Get(ctx context.Context) (key string, ok bool, err error)
}

// Store keeps the credential in the local key-value table.
type Store struct {
	kv store.KV
}

var _ Source = (*Store)(nil)

// NewStore creates a Store over kv.
func NewStore(kv store.KV) *Store {
	return &Store{kv: kv}
}

// Get returns the stored key.
func (s *Store) Get(ctx context.Context) (string, bool, error) {
	key, ok, err := s.kv.Get(ctx, storageKey)
	if err != nil {
		return "", false, fmt.Errorf("read credential: %w", err)
	}
	return key, ok, nil
}

// Set stores key exactly as given.
func (s *Store) Set(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyCredential
	}
	if err := s.kv.Set(ctx, storageKey, key); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Clear removes the stored key. Clearing an absent key is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, storageKey); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// EnvSource reads the key of the provider configured in the environment.
type EnvSource struct{}

func (EnvSource) Get(context.Context) (string, bool, error) {
	cfg, ok := llm.EnvConfig()
	if !ok || cfg.APIKey() == "" {
		return "", false, nil
	}
	return cfg.APIKey(), true, nil
}

// Chain returns the first credential found among sources, in order.
type Chain []Source

func (c Chain) Get(ctx context.Context) (string, bool, error) {
	for _, src := range c {
		key, ok, err := src.Get(ctx)
		if err != nil {
			return "", false, err
		}
		if ok {
			return key, true, nil
		}
	}
	return "", false, nil
}

// Mask renders key for display, keeping only its first and last four
// characters.
func Mask(key string) string {
	r := []rune(key)
	switch {
	case len(r) == 0:
		return ""
	case len(r) <= 8:
		return strings.Repeat("•", len(r))
	}
	return string(r[:4]) + "…" + string(r[len(r)-4:])
}
