// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes the database
//
// Services additionally own the sequencing of remote calls: the identity
// lookup against the messaging provider, the completion call, and the
// real-time mirror all happen here, in a fixed order, with no knowledge of
// HTTP. Handlers translate the returned domain errors into status codes.
//
// DEPENDENCY INJECTION:
// Each service takes interfaces (repository.UserRepository, mirror.Mirror,
// llm.Gateway), not concrete types. Tests inject mocks; main injects the
// sqlite store, the Stream client, and the OpenRouter client.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/gossip/internal/apperror"
	"github.com/sakif/gossip/internal/mirror"
	"github.com/sakif/gossip/internal/model"
	"github.com/sakif/gossip/internal/repository"
)

// UserService handles registration against the two identity stores: the
// messaging provider's registry and our own users table.
type UserService struct {
	users  repository.UserRepository
	mirror mirror.Mirror
	logger *slog.Logger
}

func NewUserService(users repository.UserRepository, m mirror.Mirror, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		mirror: m,
		logger: logger,
	}
}

// Register creates the user in the messaging provider's registry and in the
// local store, deriving the user ID from the email.
//
// IDEMPOTENCY:
// Both existence checks happen before their respective writes, so calling
// Register twice with the same email yields the same ID and duplicates
// nothing on either side.
//
// NOT TRANSACTIONAL:
// The provider write happens first and is not rolled back if the local
// insert fails. The two stores can drift, and /chat checks them
// independently for exactly that reason.
func (s *UserService) Register(ctx context.Context, name, email string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" {
		return nil, apperror.ValidationFailed("name", "Name and email are required.")
	}
	if email == "" {
		return nil, apperror.ValidationFailed("email", "Name and email are required.")
	}

	userID := model.DeriveUserID(email)

	// Provider registry first, then the local store.
	exists, err := s.mirror.UserExists(ctx, userID)
	if err != nil {
		s.logger.Error("failed to query provider registry",
			slog.String("userId", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("checking provider registry: %w", err)
	}
	if !exists {
		if err := s.mirror.UpsertUser(ctx, userID, name, email); err != nil {
			s.logger.Error("failed to create provider user",
				slog.String("userId", userID),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("creating provider user: %w", err)
		}
	}

	// Then the local store.
	existing, err := s.users.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		s.logger.Error("failed to look up user",
			slog.String("userId", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	user := &model.User{
		UserID: userID,
		Name:   name,
		Email:  email,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("failed to create user",
			slog.String("userId", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userId", user.UserID),
		slog.String("name", user.Name),
	)

	return user, nil
}
