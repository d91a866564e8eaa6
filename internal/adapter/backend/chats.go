package backend

import (
	"context"
	"encoding/json"

	"marketchat/internal/domain/entity"
	"marketchat/pkg/errors"
)

type CheckExistingChatInput struct {
	ProductID string `json:"productId"`
	BuyerID   string `json:"buyerId"`
	SellerID  string `json:"sellerId"`
}

type CreateChatInput struct {
	Product        entity.ProductSummary  `json:"product"`
	Seller         entity.UserSummary     `json:"seller"`
	Buyer          entity.UserSummary     `json:"buyer"`
	ProductDetails map[string]interface{} `json:"productDetails,omitempty"`
}

// CheckExistingChat asks the backend whether a chat already exists for the
// (product, buyer, seller) triple. Returns nil without error when there is
// none.
func (c *Client) CheckExistingChat(ctx context.Context, input CheckExistingChatInput) (*entity.Chat, error) {
	resp, err := c.request("").
		SetContext(ctx).
		SetBody(input).
		Post("/api/chats/check-existing")
	if err := checkResponse(resp, err, "check existing chat"); err != nil {
		return nil, err
	}

	data, err := dataEnvelope(resp.Body())
	if err != nil {
		return nil, err
	}

	var payload struct {
		Chat *entity.Chat `json:"chat"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errors.InvalidResponse("check-existing response has unexpected shape", err)
	}
	return payload.Chat, nil
}

// CreateChat opens a new chat between a buyer and a seller about a product.
// The backend is idempotent on the (product, buyer, seller) triple.
func (c *Client) CreateChat(ctx context.Context, input CreateChatInput) (*entity.Chat, error) {
	resp, err := c.request("").
		SetContext(ctx).
		SetBody(input).
		Post("/api/chats")
	if err := checkResponse(resp, err, "create chat"); err != nil {
		return nil, err
	}

	data, err := dataEnvelope(resp.Body())
	if err != nil {
		return nil, err
	}

	var chat entity.Chat
	if err := json.Unmarshal(data, &chat); err != nil {
		return nil, errors.InvalidResponse("create chat response has unexpected shape", err)
	}
	if err := chat.Validate(); err != nil {
		return nil, errors.InvalidResponse("create chat returned an invalid chat", err)
	}
	return &chat, nil
}

// ListChats fetches every chat the authenticated user participates in.
func (c *Client) ListChats(ctx context.Context, token string) ([]entity.Chat, error) {
	resp, err := c.request(token).
		SetContext(ctx).
		Get("/api/chats")
	if err := checkResponse(resp, err, "list chats"); err != nil {
		return nil, err
	}

	var chats []entity.Chat
	if err := chatListEnvelope(resp.Body(), &chats); err != nil {
		return nil, err
	}
	return chats, nil
}
