// internal/database/match.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/openuno/openuno/internal/models"
)

// RecordMatchResult persists the final outcome of a match: the match row
// plus one result row per seat. Called after the round finishes, outside
// any room's critical section.
func RecordMatchResult(ctx context.Context, matchID uuid.UUID, roomID string, players []*models.Player, scores map[uuid.UUID]int, winnerID uuid.UUID) error {
	if DB == nil {
		return nil
	}
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		upsertMatch := `
			INSERT INTO matches (id, room_id, winner_id, status)
			VALUES ($1, $2, $3, 'completed')
			ON CONFLICT (id) DO UPDATE SET winner_id = $3, status = 'completed'
		`
		if _, e := tx.Exec(ctx, upsertMatch, matchID, roomID, winnerID); e != nil {
			return e
		}

		for _, pl := range players {
			q := `
				INSERT INTO match_results (match_id, player_id, score, did_win)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (match_id, player_id)
				DO UPDATE SET score = $3, did_win = $4
			`
			if _, e := tx.Exec(ctx, q, matchID, pl.ID, scores[pl.ID], pl.ID == winnerID); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx upsert match or results: %w", err)
	}
	return nil
}
