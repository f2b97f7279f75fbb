// Package mirror pushes completed exchanges into the real-time messaging
// provider so other connected clients can observe the conversation live.
//
// The provider also keeps its own user registry, which register-user writes
// to alongside the local store. The two registries are checked independently
// and are NOT transactional with each other — a provider write can succeed
// and the local insert still fail.
package mirror

import "context"

// Mirror is the surface the orchestration layer needs from the real-time
// messaging provider. Implementations wrap provider errors as
// apperror.Upstream.
type Mirror interface {
	// UserExists reports whether the provider's registry knows this user ID.
	UserExists(ctx context.Context, userID string) (bool, error)

	// UpsertUser creates or refreshes the user in the provider's registry.
	UpsertUser(ctx context.Context, userID, name, email string) error

	// SendReply ensures the user's channel exists and posts the reply text
	// into it, attributed to the fixed system sender.
	SendReply(ctx context.Context, userID, text string) error
}
