package entity

import (
	"fmt"
	"time"
)

// Message types.
const (
	MessageTypeText            = "text"
	MessageTypeInvoice         = "invoice"
	MessageTypePayment         = "payment"
	MessageTypeOffer           = "offer"
	MessageTypeExtraCharge     = "extra-charge"
	MessageTypeOfferAccepted   = "offer-accepted"
	MessageTypePaymentRequest  = "payment-request"
	MessageTypeCounterDeclined = "counter-declined"
)

// Message belongs to exactly one Chat. The message log is append-only: offer
// outcomes are recorded as follow-on messages (offer-accepted,
// counter-declined), never by rewriting history.
type Message struct {
	ID          string                 `json:"_id"`
	ChatID      string                 `json:"chat_id"`
	Sender      UserSummary            `json:"sender"`
	Type        string                 `json:"type"`
	Text        string                 `json:"text,omitempty"`
	Offer       *Offer                 `json:"offer,omitempty"`
	Invoice     map[string]interface{} `json:"invoice,omitempty"`
	Payment     map[string]interface{} `json:"payment,omitempty"`
	ExtraCharge map[string]interface{} `json:"extra_charge,omitempty"`
	IsFromAdmin bool                   `json:"is_from_admin,omitempty"`
	ReadBy      []string               `json:"read_by,omitempty"`
	TempID      string                 `json:"temp_id,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// MessageDraft is a client-constructed message not yet confirmed by the
// backend, identified by TempID until the server assigns a permanent id.
type MessageDraft struct {
	ChatID      string                 `json:"chat_id" validate:"required"`
	Type        string                 `json:"type" validate:"required,oneof=text invoice payment offer extra-charge payment-request"`
	Text        string                 `json:"text,omitempty"`
	Offer       *Offer                 `json:"offer,omitempty"`
	Invoice     map[string]interface{} `json:"invoice,omitempty"`
	Payment     map[string]interface{} `json:"payment,omitempty"`
	ExtraCharge map[string]interface{} `json:"extra_charge,omitempty"`
	TempID      string                 `json:"temp_id,omitempty"`
}

// Validate enforces that exactly the payload field matching Type is populated.
func (d *MessageDraft) Validate() error {
	switch d.Type {
	case MessageTypeText:
		if d.Text == "" {
			return fmt.Errorf("text message requires text")
		}
	case MessageTypeOffer:
		if d.Offer == nil {
			return fmt.Errorf("offer message requires an offer payload")
		}
		if d.Offer.Amount <= 0 {
			return fmt.Errorf("offer amount must be positive")
		}
	case MessageTypeInvoice:
		if d.Invoice == nil {
			return fmt.Errorf("invoice message requires an invoice payload")
		}
	case MessageTypePayment, MessageTypePaymentRequest:
		if d.Payment == nil {
			return fmt.Errorf("payment message requires a payment payload")
		}
	case MessageTypeExtraCharge:
		if d.ExtraCharge == nil {
			return fmt.Errorf("extra-charge message requires a payload")
		}
	default:
		return fmt.Errorf("unknown message type %q", d.Type)
	}
	return nil
}
