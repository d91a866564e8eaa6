package entity

import (
	"fmt"
	"time"
)

// Chat is a negotiation thread between exactly one buyer and one seller about
// exactly one product. Chats are created server-side on first contact and are
// never deleted by this layer.
type Chat struct {
	ID                string         `json:"_id"`
	Buyer             UserSummary    `json:"buyer"`
	Seller            UserSummary    `json:"seller"`
	Product           ProductSummary `json:"product"`
	LastMessage       string         `json:"last_message,omitempty"`
	LastMessageSentAt time.Time      `json:"last_message_sent_at,omitempty"`
	IsReported        bool           `json:"is_reported,omitempty"`
	AdminInvolved     []string       `json:"admin_involved,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func (c *Chat) Validate() error {
	if c.Buyer.ID != "" && c.Buyer.ID == c.Seller.ID {
		return fmt.Errorf("chat %s: buyer and seller must differ", c.ID)
	}
	return nil
}

// OtherParticipant returns the counterparty for the given user id.
func (c *Chat) OtherParticipant(userID string) UserSummary {
	if c.Buyer.ID == userID {
		return c.Seller
	}
	return c.Buyer
}
