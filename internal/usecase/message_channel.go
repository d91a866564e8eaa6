package usecase

import (
	"context"

	"github.com/go-playground/validator/v10"

	"marketchat/internal/domain/entity"
	"marketchat/pkg/errors"
	"marketchat/pkg/logger"
)

// MessageChannel sends chat messages: an authenticated REST write followed by
// a realtime announcement of the persisted record. The announcement is
// strictly gated on a confirmed write; no failure path emits anything.
// Concurrent sends for distinct drafts are allowed and are not sequenced here.
type MessageChannel struct {
	api      ChatAPI
	emitter  Emitter
	tokens   TokenSource
	validate *validator.Validate
}

func NewMessageChannel(api ChatAPI, emitter Emitter, tokens TokenSource) *MessageChannel {
	return &MessageChannel{
		api:      api,
		emitter:  emitter,
		tokens:   tokens,
		validate: validator.New(),
	}
}

// Send persists the draft and announces the confirmed message. Reconciling
// the realtime echo against the draft's temp id is the caller's job, via the
// Reconciler; this method only guarantees the returned message carries the
// draft's temp id and chat id.
func (mc *MessageChannel) Send(ctx context.Context, draft *entity.MessageDraft) (*entity.Message, error) {
	if err := mc.validate.Struct(draft); err != nil {
		return nil, errors.Validation("invalid message draft", err)
	}
	if err := draft.Validate(); err != nil {
		return nil, errors.Validation(err.Error(), err)
	}

	token, ok := mc.tokens.Token()
	if !ok {
		return nil, errors.Unauthenticated("Please log in to send messages")
	}

	message, err := mc.api.SendMessage(ctx, token, draft)
	if err != nil {
		return nil, err
	}

	// Some backend versions omit the echo fields; pin them from the draft so
	// subscribers always see the chat id and temp id.
	if message.ChatID == "" {
		message.ChatID = draft.ChatID
	}
	if message.TempID == "" {
		message.TempID = draft.TempID
	}

	if err := mc.emitter.Emit("sendMessage", message); err != nil {
		// The write is already durable; a dead realtime connection only costs
		// push delivery, which polling participants recover on their own.
		logger.Warn("message channel: realtime announce failed: %v", err)
	}

	return message, nil
}
