package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketchat/internal/adapter/backend"
	"marketchat/internal/domain/entity"
	apperrors "marketchat/pkg/errors"
)

func TestEnsureChatReturnsExisting(t *testing.T) {
	api := &fakeAPI{
		checkChatFn: func(input backend.CheckExistingChatInput) (*entity.Chat, error) {
			assert.Equal(t, "p1", input.ProductID)
			return &entity.Chat{ID: "c-existing"}, nil
		},
		createChatFn: func(backend.CreateChatInput) (*entity.Chat, error) {
			t.Fatal("create must not be called when a chat exists")
			return nil, nil
		},
	}

	chat, err := EnsureChat(context.Background(), api, backend.CreateChatInput{
		Product: entity.ProductSummary{ID: "p1"},
		Buyer:   entity.UserSummary{ID: "u1"},
		Seller:  entity.UserSummary{ID: "u2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "c-existing", chat.ID)
}

func TestEnsureChatCreatesOnFirstContact(t *testing.T) {
	api := &fakeAPI{
		checkChatFn: func(backend.CheckExistingChatInput) (*entity.Chat, error) {
			return nil, nil
		},
		createChatFn: func(input backend.CreateChatInput) (*entity.Chat, error) {
			return &entity.Chat{ID: "c-new", Buyer: input.Buyer, Seller: input.Seller}, nil
		},
	}

	chat, err := EnsureChat(context.Background(), api, backend.CreateChatInput{
		Product: entity.ProductSummary{ID: "p1"},
		Buyer:   entity.UserSummary{ID: "u1"},
		Seller:  entity.UserSummary{ID: "u2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "c-new", chat.ID)
	assert.Equal(t, 2, api.calls)
}

func TestEnsureChatRejectsSelfChat(t *testing.T) {
	api := &fakeAPI{}
	_, err := EnsureChat(context.Background(), api, backend.CreateChatInput{
		Buyer:  entity.UserSummary{ID: "u1"},
		Seller: entity.UserSummary{ID: "u1"},
	})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
	assert.Zero(t, api.calls)
}
