package model

import "time"

// ChatTurn is one exchange: the user's message plus the model's reply,
// stored as a single immutable row. Turns are never updated or deleted.
//
// The `json:"..."` tags control how a turn serializes in the /get-messages
// response; the `db:"..."` tags document the column names in the chat table.
type ChatTurn struct {
	ID        int64     `json:"id"        db:"id"`
	UserID    string    `json:"userId"    db:"user_id"`
	Message   string    `json:"message"   db:"message"`
	Reply     string    `json:"reply"     db:"reply"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Prompt roles understood by the completion provider.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// PromptMessage is one role-tagged entry in the context sent to the model.
type PromptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ExpandTurns converts stored turns into the alternating prompt sequence the
// model expects: for each turn, a user entry with the message followed by an
// assistant entry with the reply. Order is preserved, so callers must pass
// turns in ascending chronological order.
func ExpandTurns(turns []ChatTurn) []PromptMessage {
	// Each turn becomes exactly two entries.
	messages := make([]PromptMessage, 0, len(turns)*2)
	for _, turn := range turns {
		messages = append(messages,
			PromptMessage{Role: RoleUser, Content: turn.Message},
			PromptMessage{Role: RoleAssistant, Content: turn.Reply},
		)
	}
	return messages
}
