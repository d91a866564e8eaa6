package backend

import (
	"context"
	"encoding/json"
)

type offerActionBody struct {
	BestPrice *float64 `json:"bestPrice,omitempty"`
}

// AcceptOffer marks an offer message accepted. The server owns the status
// check; a repeat call on a settled offer is passed through unchanged.
func (c *Client) AcceptOffer(ctx context.Context, token, messageID string, bestPrice *float64) (json.RawMessage, error) {
	return c.offerAction(ctx, token, messageID, "accept", bestPrice)
}

// DeclineOffer marks an offer message declined.
func (c *Client) DeclineOffer(ctx context.Context, token, messageID string, bestPrice *float64) (json.RawMessage, error) {
	return c.offerAction(ctx, token, messageID, "decline", bestPrice)
}

func (c *Client) offerAction(ctx context.Context, token, messageID, action string, bestPrice *float64) (json.RawMessage, error) {
	resp, err := c.request(token).
		SetContext(ctx).
		SetBody(offerActionBody{BestPrice: bestPrice}).
		Post("/api/chats/messages/" + messageID + "/" + action)
	if err := checkResponse(resp, err, action+" offer"); err != nil {
		return nil, err
	}
	return dataEnvelope(resp.Body())
}
