package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/gossip/internal/apperror"
	"github.com/sakif/gossip/internal/llm"
	"github.com/sakif/gossip/internal/mirror"
	"github.com/sakif/gossip/internal/model"
	"github.com/sakif/gossip/internal/repository"
)

const (
	// HistoryWindow is the number of prior turns included as context for
	// each completion call. 10 turns expand into at most 20 role-tagged
	// entries plus the new message.
	HistoryWindow = 10

	// FallbackReply is stored and returned when the provider comes back
	// with an empty reply.
	FallbackReply = "Unable to get response. Retry!"
)

// ChatService orchestrates one chat exchange: identity checks, windowed
// history read, completion call, persistence, and the real-time mirror.
// It holds no state of its own: everything lives in the store or the
// remote providers, so concurrent requests are not serialized here.
type ChatService struct {
	users   repository.UserRepository
	turns   repository.TurnRepository
	gateway llm.Gateway
	mirror  mirror.Mirror
	logger  *slog.Logger
}

func NewChatService(
	users repository.UserRepository,
	turns repository.TurnRepository,
	gateway llm.Gateway,
	m mirror.Mirror,
	logger *slog.Logger,
) *ChatService {
	return &ChatService{
		users:   users,
		turns:   turns,
		gateway: gateway,
		mirror:  m,
		logger:  logger,
	}
}

// Send runs the full chat sequence and returns the model's reply.
//
// THE FIXED ORDER:
//  1. provider registry check          → NotFound (404) if unknown there
//  2. local store check                → Validation (400) if unregistered
//  3. windowed history read (10 turns, ascending)
//  4. prompt = expanded history + the new message
//  5. completion call (single round trip, no retry)
//  6. persist the turn (placeholder reply if the provider returned empty)
//  7. mirror the reply into the user's channel
//
// Persistence precedes the mirror: if step 7 fails the turn is already
// durable, but the caller still gets an error. The broadcast side is
// at-least-once.
//
// Validation happens before ANY remote call: an empty message or user ID
// must not touch the provider or the store.
func (s *ChatService) Send(ctx context.Context, userID, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", apperror.ValidationFailed("message", "Message and userId are required.")
	}
	if strings.TrimSpace(userID) == "" {
		return "", apperror.ValidationFailed("userId", "Message and userId are required.")
	}

	// Step 1: the messaging provider's registry.
	known, err := s.mirror.UserExists(ctx, userID)
	if err != nil {
		s.logger.Error("failed to query provider registry",
			slog.String("userId", userID),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("checking provider registry: %w", err)
	}
	if !known {
		return "", apperror.NotFoundMessage("User not found. Please register first.")
	}

	// Step 2: the local store, checked independently of step 1. An account
	// present in one registry but not the other is rejected here.
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.ValidationFailed("userId",
				"You do not have an account. Please register to use Gossip.")
		}
		s.logger.Error("failed to look up user",
			slog.String("userId", userID),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("looking up user: %w", err)
	}

	// Steps 3–4: the conversation window, recomputed on every request.
	history, err := s.turns.RecentByUser(ctx, userID, HistoryWindow)
	if err != nil {
		s.logger.Error("failed to read chat history",
			slog.String("userId", userID),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("reading chat history: %w", err)
	}

	prompt := model.ExpandTurns(history)
	prompt = append(prompt, model.PromptMessage{Role: model.RoleUser, Content: message})

	// Step 5: one synchronous completion round trip.
	reply, err := s.gateway.Complete(ctx, prompt)
	if err != nil {
		s.logger.Error("completion call failed",
			slog.String("userId", userID),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("requesting completion: %w", err)
	}
	if reply == "" {
		reply = FallbackReply
	}

	// Step 6: persist before broadcasting.
	turn := &model.ChatTurn{
		UserID:  userID,
		Message: message,
		Reply:   reply,
	}
	if err := s.turns.Create(ctx, turn); err != nil {
		s.logger.Error("failed to persist turn",
			slog.String("userId", userID),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("saving turn: %w", err)
	}

	// Step 7: the real-time mirror. The turn is already durable; a failure
	// here still fails the request, with no partial-success signaling.
	if err := s.mirror.SendReply(ctx, userID, reply); err != nil {
		s.logger.Error("failed to mirror reply",
			slog.String("userId", userID),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("mirroring reply: %w", err)
	}

	s.logger.Info("chat exchange completed",
		slog.String("userId", userID),
		slog.Int64("turnId", turn.ID),
		slog.Int("windowTurns", len(history)),
	)

	return reply, nil
}

// History returns every stored turn for a user, unwindowed, in storage
// order. Unlike Send's windowed read, no explicit ordering is applied;
// clients that want chronological display sort on their side.
func (s *ChatService) History(ctx context.Context, userID string) ([]model.ChatTurn, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperror.ValidationFailed("userId", "UserId is required.")
	}

	turns, err := s.turns.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list turns",
			slog.String("userId", userID),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Internal("Unable to retrieve chat history. Please try again.", err)
	}

	return turns, nil
}
