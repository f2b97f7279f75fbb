package repository

import (
	"context"

	"github.com/sakif/gossip/internal/model"
)

// UserRepository persists registered users. GetByID returns
// apperror.ErrNotFound (wrapped) when no user with that ID exists.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, userID string) (*model.User, error)
}

// TurnRepository persists the append-only conversation log.
//
// RecentByUser returns the most recent `limit` turns in ASCENDING
// chronological order — that is the shape the prompt builder needs.
// ListByUser returns every turn for the user in storage order, unwindowed;
// it is the /get-messages read path and applies no ORDER BY. The two read
// paths differ on purpose.
type TurnRepository interface {
	Create(ctx context.Context, turn *model.ChatTurn) error
	RecentByUser(ctx context.Context, userID string, limit int) ([]model.ChatTurn, error)
	ListByUser(ctx context.Context, userID string) ([]model.ChatTurn, error)
}
