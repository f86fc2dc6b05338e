package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/abhisek/devtutor/internal/store"
)

func TestFindEvent(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	repo := s.EventRepo()
	for _, purpose := range []string{"quiz", "tutor"} {
		if err := repo.AppendLLMRequest(ctx, store.LLMRequestEventData{Provider: "mock", Purpose: purpose, Success: true}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	events, err := repo.QueryLLMEvents(ctx, store.QueryOpts{})
	if err != nil || len(events) != 2 {
		t.Fatalf("query = %d events, %v", len(events), err)
	}
	want := events[0]

	got, err := findEvent(ctx, repo, want.ID)
	if err != nil || got.ID != want.ID {
		t.Fatalf("full id: %v, %v", got, err)
	}

	got, err = findEvent(ctx, repo, want.ID[:8])
	if err != nil || got.ID != want.ID {
		t.Fatalf("prefix: %v, %v", got, err)
	}

	if _, err := findEvent(ctx, repo, ""); err == nil {
		t.Error("an empty prefix matches every event and should be ambiguous")
	}
	if _, err := findEvent(ctx, repo, "zzzz"); err == nil {
		t.Error("expected not found")
	}
}
