// Package repo implements persistence over Postgres (pgx). Slot writes are
// conflict-checked inside a transaction that holds a per-scope advisory
// lock, so two concurrent overlapping proposals for the same scope cannot
// both pass the check and commit.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrConflict means a candidate slot overlaps an existing slot in its scope.
var ErrConflict = errors.New("slot overlaps an existing schedule")

// lockScope serializes writers for one scope for the duration of the
// transaction. The key must be stable per scope, e.g. "user:42".
func lockScope(ctx context.Context, tx pgx.Tx, key string) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("lock scope %s: %w", key, err)
	}
	return nil
}
