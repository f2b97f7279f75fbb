// Package llm is the completion gateway: it turns an ordered list of
// role-tagged messages into a single model-generated reply.
//
// The provider is treated as a black box behind the Gateway interface, so the
// chat service can be tested with a mock and the real client swapped without
// touching orchestration code.
package llm

import (
	"context"

	"github.com/sakif/gossip/internal/model"
)

// Gateway produces one reply for a full prompt context.
//
// A single synchronous round trip: no retry, no streaming — the full reply
// must be received before any of it is used. An empty reply is NOT an error;
// the gateway returns "" and the caller decides what to substitute.
type Gateway interface {
	Complete(ctx context.Context, messages []model.PromptMessage) (string, error)
}
