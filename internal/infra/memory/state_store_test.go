package memory

import (
	"context"
	"errors"
	"testing"

	"trivia-rounds/internal/domain"
	"trivia-rounds/internal/game"
)

func TestStateStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStateStore()

	if _, err := store.Load(ctx); !errors.Is(err, domain.ErrStateNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	state := game.New(10)
	id := state.AddPlayer("Alice", "", "01")
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}

	// later mutations must not leak into the stored record
	state.RemovePlayer(id)

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Players) != 1 || loaded.Players[0].ID != id {
		t.Fatalf("expected stored player, got %+v", loaded.Players)
	}

	if err := store.Delete(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, domain.ErrStateNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
