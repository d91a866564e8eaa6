package entity

// Offer statuses. Transitions are monotonic: sent may become accepted or
// declined, after which the offer is immutable.
const (
	OfferStatusSent     = "sent"
	OfferStatusAccepted = "accepted"
	OfferStatusDeclined = "declined"
)

// Offer is a priced proposal embedded in a message of type "offer".
type Offer struct {
	Amount                float64  `json:"amount"`
	Status                string   `json:"status"`
	ProposedBy            string   `json:"proposed_by,omitempty"`
	BestPrice             *float64 `json:"best_price,omitempty"`
	InitialOfferMessageID string   `json:"initial_offer_message_id,omitempty"`
}

// CanTransition reports whether the offer may move to next. Only a pending
// offer moves anywhere; accepted and declined are terminal.
func (o *Offer) CanTransition(next string) bool {
	if o.Status != OfferStatusSent {
		return false
	}
	return next == OfferStatusAccepted || next == OfferStatusDeclined
}
