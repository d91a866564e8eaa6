package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketchat/internal/domain/entity"
	apperrors "marketchat/pkg/errors"
)

func TestSendAnnouncesConfirmedMessage(t *testing.T) {
	api := &fakeAPI{
		sendMessageFn: func(token string, draft *entity.MessageDraft) (*entity.Message, error) {
			assert.Equal(t, "tok", token)
			return &entity.Message{ID: "m1", Type: draft.Type, Text: draft.Text, TempID: draft.TempID}, nil
		},
	}
	emitter := &fakeEmitter{}
	mc := NewMessageChannel(api, emitter, &fakeTokens{token: "tok"})

	msg, err := mc.Send(context.Background(), &entity.MessageDraft{
		ChatID: "c1", Type: entity.MessageTypeText, Text: "hello", TempID: "t-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "m1", msg.ID)
	assert.Equal(t, entity.MessageTypeText, msg.Type)
	// The backend omitted chat_id; the channel pins it from the draft before
	// announcing.
	assert.Equal(t, "c1", msg.ChatID)

	require.Len(t, emitter.events, 1)
	assert.Equal(t, "sendMessage", emitter.events[0])
	announced := emitter.payloads[0].(*entity.Message)
	assert.Equal(t, "c1", announced.ChatID)
	assert.Equal(t, "t-1", announced.TempID)
}

func TestSendWithoutCredentialTouchesNothing(t *testing.T) {
	api := &fakeAPI{}
	emitter := &fakeEmitter{}
	mc := NewMessageChannel(api, emitter, &fakeTokens{})

	_, err := mc.Send(context.Background(), &entity.MessageDraft{
		ChatID: "c1", Type: entity.MessageTypeText, Text: "hello",
	})

	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthenticated))
	assert.Zero(t, api.calls)
	assert.Empty(t, emitter.events)
}

func TestSendRejectsInvalidDrafts(t *testing.T) {
	api := &fakeAPI{}
	mc := NewMessageChannel(api, &fakeEmitter{}, &fakeTokens{token: "tok"})

	cases := []struct {
		name  string
		draft *entity.MessageDraft
	}{
		{"no chat id", &entity.MessageDraft{Type: entity.MessageTypeText, Text: "x"}},
		{"text without text", &entity.MessageDraft{ChatID: "c1", Type: entity.MessageTypeText}},
		{"offer without payload", &entity.MessageDraft{ChatID: "c1", Type: entity.MessageTypeOffer}},
		{"non-positive amount", &entity.MessageDraft{ChatID: "c1", Type: entity.MessageTypeOffer, Offer: &entity.Offer{Amount: -5}}},
		{"server-only type", &entity.MessageDraft{ChatID: "c1", Type: "offer-accepted", Text: "x"}},
		{"invoice without payload", &entity.MessageDraft{ChatID: "c1", Type: entity.MessageTypeInvoice}},
	}
	for _, tc := range cases {
		_, err := mc.Send(context.Background(), tc.draft)
		assert.True(t, apperrors.Is(err, apperrors.CodeValidation), tc.name)
	}
	assert.Zero(t, api.calls)
}

func TestSendDoesNotAnnounceOnFailure(t *testing.T) {
	api := &fakeAPI{
		sendMessageFn: func(string, *entity.MessageDraft) (*entity.Message, error) {
			return nil, apperrors.ServerRejected("chat is reported", 400)
		},
	}
	emitter := &fakeEmitter{}
	mc := NewMessageChannel(api, emitter, &fakeTokens{token: "tok"})

	_, err := mc.Send(context.Background(), &entity.MessageDraft{
		ChatID: "c1", Type: entity.MessageTypeText, Text: "hello",
	})

	assert.True(t, apperrors.Is(err, apperrors.CodeServerRejected))
	assert.Empty(t, emitter.events)
}

func TestSendSurvivesDeadRealtime(t *testing.T) {
	api := &fakeAPI{
		sendMessageFn: func(_ string, draft *entity.MessageDraft) (*entity.Message, error) {
			return &entity.Message{ID: "m1", ChatID: draft.ChatID, Type: draft.Type, Text: draft.Text}, nil
		},
	}
	emitter := &fakeEmitter{err: assert.AnError}
	mc := NewMessageChannel(api, emitter, &fakeTokens{token: "tok"})

	msg, err := mc.Send(context.Background(), &entity.MessageDraft{
		ChatID: "c1", Type: entity.MessageTypeText, Text: "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "m1", msg.ID)
}

func TestSendOfferDraft(t *testing.T) {
	api := &fakeAPI{
		sendMessageFn: func(_ string, draft *entity.MessageDraft) (*entity.Message, error) {
			return &entity.Message{ID: "m2", ChatID: draft.ChatID, Type: draft.Type, Offer: draft.Offer}, nil
		},
	}
	mc := NewMessageChannel(api, &fakeEmitter{}, &fakeTokens{token: "tok"})

	msg, err := mc.Send(context.Background(), &entity.MessageDraft{
		ChatID: "c1",
		Type:   entity.MessageTypeOffer,
		Offer:  &entity.Offer{Amount: 20000, Status: entity.OfferStatusSent, ProposedBy: "u1"},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MessageTypeOffer, msg.Type)
	require.NotNil(t, msg.Offer)
	assert.Equal(t, 20000.0, msg.Offer.Amount)
}
