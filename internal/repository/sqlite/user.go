package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/gossip/internal/apperror"
	"github.com/sakif/gossip/internal/model"
	"github.com/sakif/gossip/internal/repository"
)

// COMPILE-TIME INTERFACE CHECK:
// `var _ X = (*Y)(nil)` verifies at compile time that *Users implements the
// repository interface. Without this, a missing method would only surface
// where *Users is passed to something expecting a UserRepository.
var _ repository.UserRepository = (*Users)(nil)

// Users implements repository.UserRepository over the shared DB handle.
//
// UserRepository and TurnRepository both name their insert `Create` but take
// different row types, so one receiver type cannot satisfy both interfaces.
// Each repository is a thin struct over the same connection pool instead.
type Users struct {
	db *DB
}

func NewUsers(db *DB) *Users {
	return &Users{db: db}
}

// Create inserts a new user row.
//
// The caller (UserService) has already derived user.UserID from the email
// and checked for an existing row; a primary-key violation here means two
// concurrent registrations raced, and surfaces as a wrapped driver error.
func (r *Users) Create(ctx context.Context, user *model.User) error {
	user.CreatedAt = time.Now()

	// PARAMETERIZED QUERIES (the ? placeholders):
	// Never build SQL strings with fmt.Sprintf — the driver safely escapes
	// each value, which is what prevents SQL injection.
	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO users (user_id, name, email, created_at)
		 VALUES (?, ?, ?, ?)`,
		user.UserID,
		user.Name,
		user.Email,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating user %s: %w", user.UserID, err)
	}

	return nil
}

// GetByID retrieves a single user by their derived ID.
// Returns apperror.ErrNotFound (wrapped) if no such user exists.
func (r *Users) GetByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User

	err := r.db.conn.QueryRowContext(ctx,
		`SELECT user_id, name, email, created_at
		 FROM users
		 WHERE user_id = ?`,
		userID,
	).Scan(
		&user.UserID,
		&user.Name,
		&user.Email,
		&user.CreatedAt,
	)

	if err != nil {
		// sql.ErrNoRows is a sentinel, not a real failure — translate it to
		// our domain's NotFound so the service layer can branch on it.
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", userID)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", userID, err)
	}

	return &user, nil
}
