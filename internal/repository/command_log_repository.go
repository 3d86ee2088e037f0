package repository // repository defines data access for the command log

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"fmt"
	"sync"

	"github.com/iliyamo/cinema-booking-engine/internal/model"
)

// CommandLogRepo mirrors the command channel into the command_log table.
// Each row carries a sequence number assigned in publish order, so
// reading ORDER BY seq returns commands in commit order.
type CommandLogRepo struct {
	db *sql.DB

	mu  sync.Mutex
	seq uint64 // last sequence number written
}

// NewCommandLogRepo constructs a CommandLogRepo with the given DB handle.
func NewCommandLogRepo(db *sql.DB) *CommandLogRepo {
	return &CommandLogRepo{db: db}
}

// EnsureSchema creates the command_log table when it does not exist.
func (r *CommandLogRepo) EnsureSchema(ctx context.Context) error {
	const q = `CREATE TABLE IF NOT EXISTS command_log (
	             seq        BIGINT UNSIGNED  NOT NULL PRIMARY KEY,
	             op         TINYINT UNSIGNED NOT NULL,
	             theater    INT UNSIGNED     NOT NULL,
	             row_idx    INT UNSIGNED     NOT NULL,
	             col_idx    INT UNSIGNED     NOT NULL,
	             category   TINYINT UNSIGNED NOT NULL,
	             created_at DATETIME         NOT NULL DEFAULT CURRENT_TIMESTAMP
	           )`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

// Reset empties the table and restarts sequence numbering.  It is called
// once at startup, matching the truncation of the command file.
func (r *CommandLogRepo) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.db.ExecContext(ctx, `DELETE FROM command_log`); err != nil {
		return fmt.Errorf("command_log: reset: %w", err)
	}
	r.seq = 0
	return nil
}

// Publish inserts cmd with the next sequence number.  A failed insert
// does not consume the number.
func (r *CommandLogRepo) Publish(ctx context.Context, cmd model.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	const q = `INSERT INTO command_log (seq, op, theater, row_idx, col_idx, category)
	           VALUES (?, ?, ?, ?, ?, ?)`
	next := r.seq + 1
	if _, err := r.db.ExecContext(ctx, q, next, uint8(cmd.Op), cmd.Theater, cmd.Row, cmd.Col, uint8(cmd.Category)); err != nil {
		return fmt.Errorf("command_log: insert seq %d: %w", next, err)
	}
	r.seq = next
	return nil
}

// List returns every logged command in sequence order.
func (r *CommandLogRepo) List(ctx context.Context) ([]model.Command, error) {
	const q = `SELECT op, theater, row_idx, col_idx, category
	           FROM command_log
	           ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Command
	for rows.Next() {
		var (
			op, cat uint8
			c       model.Command
		)
		if err := rows.Scan(&op, &c.Theater, &c.Row, &c.Col, &cat); err != nil {
			return nil, err
		}
		c.Op = model.Op(op)
		c.Category = model.Category(cat)
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
