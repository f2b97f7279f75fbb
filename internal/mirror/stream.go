package mirror

import (
	"context"
	"fmt"

	stream "github.com/GetStream/stream-chat-go/v7"

	"github.com/sakif/gossip/internal/apperror"
)

const (
	// channelType is Stream's built-in type for 1:1 / group messaging.
	channelType = "messaging"

	// SenderID is the fixed system identity every mirrored reply is
	// attributed to. It is also the display name of the channel.
	SenderID = "Gossip."
)

// compile-time check that *StreamMirror implements Mirror
var _ Mirror = (*StreamMirror)(nil)

// StreamMirror implements Mirror against Stream Chat using the server-side
// SDK (API key + secret, not a user token).
type StreamMirror struct {
	client *stream.Client
}

// NewStreamMirror creates a mirror backed by Stream Chat.
func NewStreamMirror(apiKey, apiSecret string) (*StreamMirror, error) {
	client, err := stream.NewClient(apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("mirror: creating stream client: %w", err)
	}
	return &StreamMirror{client: client}, nil
}

// UserExists queries the provider registry for an exact ID match.
func (m *StreamMirror) UserExists(ctx context.Context, userID string) (bool, error) {
	resp, err := m.client.QueryUsers(ctx, &stream.QueryUsersOptions{
		QueryOption: stream.QueryOption{
			Filter: map[string]interface{}{
				"id": map[string]interface{}{"$eq": userID},
			},
		},
	})
	if err != nil {
		return false, apperror.Upstream("stream", err.Error())
	}
	return len(resp.Users) > 0, nil
}

// UpsertUser creates or refreshes the user in Stream's registry. Stream's
// upsert is idempotent on the user ID, so calling this for an existing user
// just refreshes the profile fields.
func (m *StreamMirror) UpsertUser(ctx context.Context, userID, name, email string) error {
	_, err := m.client.UpsertUser(ctx, &stream.User{
		ID:   userID,
		Name: name,
		Role: "user",
		ExtraData: map[string]interface{}{
			"email": email,
		},
	})
	if err != nil {
		return apperror.Upstream("stream", err.Error())
	}
	return nil
}

// SendReply gets-or-creates the user's channel and posts the reply into it.
//
// The channel ID is deterministic ("chat-<userId>"), so CreateChannel acts
// as an idempotent ensure: if the channel already exists Stream returns it
// unchanged. The send is attributed to the fixed system sender, not to the
// user the reply is for.
func (m *StreamMirror) SendReply(ctx context.Context, userID, text string) error {
	resp, err := m.client.CreateChannel(ctx, channelType, "chat-"+userID, SenderID,
		&stream.ChannelRequest{
			ExtraData: map[string]interface{}{
				"name": SenderID,
			},
		})
	if err != nil {
		return apperror.Upstream("stream", err.Error())
	}

	_, err = resp.Channel.SendMessage(ctx, &stream.Message{Text: text}, SenderID)
	if err != nil {
		return apperror.Upstream("stream", err.Error())
	}
	return nil
}
