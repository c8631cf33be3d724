package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-rounds/internal/domain"
	"trivia-rounds/internal/game"
)

// StateStore keeps the game record as JSONB, one row per namespace.
type StateStore struct {
	pool      *pgxpool.Pool
	namespace string
}

func NewStateStore(pool *pgxpool.Pool, namespace string) *StateStore {
	return &StateStore{pool: pool, namespace: namespace}
}

func (s *StateStore) Load(ctx context.Context) (*game.State, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM game_states WHERE namespace=$1`, s.namespace).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game state: %w", err)
	}
	return game.Decode(raw)
}

func (s *StateStore) Save(ctx context.Context, state *game.State) error {
	data, err := game.Encode(state)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
INSERT INTO game_states (namespace, version, data, updated_at)
VALUES ($1, $2, $3::jsonb, now())
ON CONFLICT (namespace) DO UPDATE
SET version = EXCLUDED.version, data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		s.namespace, game.SchemaVersion, string(data))
	if err != nil {
		return fmt.Errorf("save game state: %w", err)
	}
	return nil
}

func (s *StateStore) Delete(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM game_states WHERE namespace=$1`, s.namespace); err != nil {
		return fmt.Errorf("delete game state: %w", err)
	}
	return nil
}
