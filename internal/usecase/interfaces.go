package usecase

import (
	"context"
	"encoding/json"

	"marketchat/internal/adapter/backend"
	"marketchat/internal/domain/entity"
)

// ChatAPI is the slice of the backend client the usecases depend on. Tests
// substitute spies for it.
type ChatAPI interface {
	CheckExistingChat(ctx context.Context, input backend.CheckExistingChatInput) (*entity.Chat, error)
	CreateChat(ctx context.Context, input backend.CreateChatInput) (*entity.Chat, error)
	ListChats(ctx context.Context, token string) ([]entity.Chat, error)
	ListMessages(ctx context.Context, token, chatID string) ([]entity.Message, error)
	SendMessage(ctx context.Context, token string, draft *entity.MessageDraft) (*entity.Message, error)
	AcceptOffer(ctx context.Context, token, messageID string, bestPrice *float64) (json.RawMessage, error)
	DeclineOffer(ctx context.Context, token, messageID string, bestPrice *float64) (json.RawMessage, error)
}

// Emitter announces events on the live realtime connection.
type Emitter interface {
	Emit(event string, payload interface{}) error
}

// TokenSource yields the stored bearer credential, if any.
type TokenSource interface {
	Token() (string, bool)
}
