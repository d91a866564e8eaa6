package backend

import (
	"context"
	"encoding/json"
	"fmt"

	"marketchat/internal/domain/entity"
	"marketchat/pkg/errors"
)

// ListMessages fetches the full message history of one chat.
func (c *Client) ListMessages(ctx context.Context, token, chatID string) ([]entity.Message, error) {
	resp, err := c.request(token).
		SetContext(ctx).
		Get("/api/chats/messages/" + chatID)
	if err := checkResponse(resp, err, "list messages"); err != nil {
		return nil, err
	}

	data, err := dataEnvelope(resp.Body())
	if err != nil {
		return nil, err
	}

	var messages []entity.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, errors.InvalidResponse("message history has unexpected shape", err)
	}
	return messages, nil
}

// SendMessage persists a draft. The returned message carries the permanent
// server id; the draft's temp id is echoed back when the backend supports it.
func (c *Client) SendMessage(ctx context.Context, token string, draft *entity.MessageDraft) (*entity.Message, error) {
	resp, err := c.request(token).
		SetContext(ctx).
		SetBody(draft).
		Post("/api/chats/messages/")
	if err := checkResponse(resp, err, "send message"); err != nil {
		return nil, err
	}

	data, err := dataEnvelope(resp.Body())
	if err != nil {
		return nil, err
	}

	var message entity.Message
	if err := json.Unmarshal(data, &message); err != nil {
		return nil, errors.InvalidResponse("send message response has unexpected shape", err)
	}
	if message.ID == "" || message.Type == "" {
		return nil, errors.InvalidResponse("send message response missing id or type", nil)
	}
	if message.Type != draft.Type {
		return nil, errors.InvalidResponse(
			fmt.Sprintf("send message response type %q does not match draft type %q", message.Type, draft.Type), nil)
	}
	return &message, nil
}
