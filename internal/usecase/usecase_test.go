package usecase

import (
	"context"
	"encoding/json"

	"marketchat/internal/adapter/backend"
	"marketchat/internal/domain/entity"
)

// fakeAPI is a spy over the ChatAPI interface. Every call increments its
// counter so tests can assert the transport was (or was not) touched.
type fakeAPI struct {
	calls int

	listChatsFn    func(token string) ([]entity.Chat, error)
	listMessagesFn func(token, chatID string) ([]entity.Message, error)
	sendMessageFn  func(token string, draft *entity.MessageDraft) (*entity.Message, error)
	offerFn        func(token, messageID, action string, bestPrice *float64) (json.RawMessage, error)
	checkChatFn    func(input backend.CheckExistingChatInput) (*entity.Chat, error)
	createChatFn   func(input backend.CreateChatInput) (*entity.Chat, error)
}

func (f *fakeAPI) CheckExistingChat(_ context.Context, input backend.CheckExistingChatInput) (*entity.Chat, error) {
	f.calls++
	return f.checkChatFn(input)
}

func (f *fakeAPI) CreateChat(_ context.Context, input backend.CreateChatInput) (*entity.Chat, error) {
	f.calls++
	return f.createChatFn(input)
}

func (f *fakeAPI) ListChats(_ context.Context, token string) ([]entity.Chat, error) {
	f.calls++
	return f.listChatsFn(token)
}

func (f *fakeAPI) ListMessages(_ context.Context, token, chatID string) ([]entity.Message, error) {
	f.calls++
	return f.listMessagesFn(token, chatID)
}

func (f *fakeAPI) SendMessage(_ context.Context, token string, draft *entity.MessageDraft) (*entity.Message, error) {
	f.calls++
	return f.sendMessageFn(token, draft)
}

func (f *fakeAPI) AcceptOffer(_ context.Context, token, messageID string, bestPrice *float64) (json.RawMessage, error) {
	f.calls++
	return f.offerFn(token, messageID, "accept", bestPrice)
}

func (f *fakeAPI) DeclineOffer(_ context.Context, token, messageID string, bestPrice *float64) (json.RawMessage, error) {
	f.calls++
	return f.offerFn(token, messageID, "decline", bestPrice)
}

// fakeEmitter records realtime announcements.
type fakeEmitter struct {
	events   []string
	payloads []interface{}
	err      error
}

func (f *fakeEmitter) Emit(event string, payload interface{}) error {
	f.events = append(f.events, event)
	f.payloads = append(f.payloads, payload)
	return f.err
}

// fakeTokens yields a fixed credential, or none when empty.
type fakeTokens struct {
	token string
}

func (f *fakeTokens) Token() (string, bool) {
	return f.token, f.token != ""
}
