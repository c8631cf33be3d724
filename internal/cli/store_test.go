package cli

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"trivia-rounds/internal/config"
	"trivia-rounds/internal/domain"
	"trivia-rounds/internal/infra/memory"
)

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Game.TotalQuestions != domain.DefaultTotalQuestions || cfg.Game.Namespace != config.DefaultNamespace {
		t.Fatalf("expected defaults, got %+v", cfg.Game)
	}
}

func TestOpenStateRepositoryWithoutBackendsUsesMemory(t *testing.T) {
	repo, closeStore, err := openStateRepository(context.Background(), config.Default())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer closeStore()

	if _, ok := repo.(*memory.StateStore); !ok {
		t.Fatalf("expected memory store, got %T", repo)
	}
	if _, err := repo.Load(context.Background()); !errors.Is(err, domain.ErrStateNotFound) {
		t.Fatalf("expected empty store, got %v", err)
	}
}

func TestMigrateRequiresPostgres(t *testing.T) {
	if err := runMigrationsWithConfig(context.Background(), config.Default()); err == nil {
		t.Fatalf("expected error without postgres url")
	}
}
