package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/sakif/gossip/internal/model"
	"github.com/sakif/gossip/internal/repository"
)

var _ repository.TurnRepository = (*Turns)(nil)

// Turns implements repository.TurnRepository over the shared DB handle.
// See Users for why each repository has its own receiver type.
type Turns struct {
	db *DB
}

func NewTurns(db *DB) *Turns {
	return &Turns{db: db}
}

// Create appends a turn to the chat log.
//
// POINTER RECEIVER ARGUMENT:
// We take *model.ChatTurn so we can write the generated row ID and timestamp
// back into the caller's struct. LastInsertId works here because the chat
// table's id is an AUTOINCREMENT integer primary key.
func (r *Turns) Create(ctx context.Context, turn *model.ChatTurn) error {
	turn.CreatedAt = time.Now()

	result, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO chat (user_id, message, reply, created_at)
		 VALUES (?, ?, ?, ?)`,
		turn.UserID,
		turn.Message,
		turn.Reply,
		turn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating turn for user %s: %w", turn.UserID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading turn id: %w", err)
	}
	turn.ID = id

	return nil
}

// RecentByUser returns the most recent `limit` turns for a user in ASCENDING
// chronological order.
//
// The query selects newest-first (so LIMIT keeps the latest window, not the
// oldest), then we reverse in Go. The id tiebreak keeps the order stable when
// several turns share a created_at — DATETIME resolution is one second, and a
// fast conversation can easily land two turns in the same second.
func (r *Turns) RecentByUser(ctx context.Context, userID string, limit int) ([]model.ChatTurn, error) {
	if limit <= 0 {
		return []model.ChatTurn{}, nil
	}

	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, user_id, message, reply, created_at
		 FROM chat
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		userID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading recent turns for user %s: %w", userID, err)
	}
	// CRITICAL: always close rows — they hold a pool connection.
	defer rows.Close()

	turns := make([]model.ChatTurn, 0, limit)
	for rows.Next() {
		var turn model.ChatTurn
		if err := rows.Scan(
			&turn.ID, &turn.UserID, &turn.Message, &turn.Reply, &turn.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning turn row: %w", err)
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating turns: %w", err)
	}

	// Reverse newest-first into oldest-first, the shape the prompt needs.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	return turns, nil
}

// ListByUser returns every turn for a user, unwindowed.
//
// No ORDER BY on purpose: this is the /get-messages read path, which returns
// rows in storage order. The windowed chat read applies its own ordering.
func (r *Turns) ListByUser(ctx context.Context, userID string) ([]model.ChatTurn, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, user_id, message, reply, created_at
		 FROM chat
		 WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing turns for user %s: %w", userID, err)
	}
	defer rows.Close()

	turns := make([]model.ChatTurn, 0)
	for rows.Next() {
		var turn model.ChatTurn
		if err := rows.Scan(
			&turn.ID, &turn.UserID, &turn.Message, &turn.Reply, &turn.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning turn row: %w", err)
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating turns: %w", err)
	}

	return turns, nil
}
