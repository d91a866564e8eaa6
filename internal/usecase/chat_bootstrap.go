package usecase

import (
	"context"

	"marketchat/internal/adapter/backend"
	"marketchat/internal/domain/entity"
	"marketchat/pkg/errors"
	"marketchat/pkg/logger"
)

// EnsureChat returns the chat for the (product, buyer, seller) triple,
// creating it on first contact. The backend is idempotent on the triple, so a
// repeat call returns the existing chat instead of a duplicate.
func EnsureChat(ctx context.Context, api ChatAPI, input backend.CreateChatInput) (*entity.Chat, error) {
	if input.Buyer.ID == input.Seller.ID {
		return nil, errors.Validation("buyer and seller must differ", nil)
	}

	existing, err := api.CheckExistingChat(ctx, backend.CheckExistingChatInput{
		ProductID: input.Product.ID,
		BuyerID:   input.Buyer.ID,
		SellerID:  input.Seller.ID,
	})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		logger.Debug("chat bootstrap: reusing chat %s", existing.ID)
		return existing, nil
	}

	return api.CreateChat(ctx, input)
}
