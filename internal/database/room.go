// internal/database/room.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InsertRoomRecord persists the creation record of a room. This is a
// boundary write: it happens once when the room comes into being, never
// inside a room's critical section.
func InsertRoomRecord(ctx context.Context, roomID string, hostID uuid.UUID, createdAt time.Time) error {
	if DB == nil {
		return nil
	}
	q := `
		INSERT INTO rooms (id, host_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := DB.Exec(ctx, q, roomID, hostID, createdAt); err != nil {
		return fmt.Errorf("insert room record: %w", err)
	}
	return nil
}
