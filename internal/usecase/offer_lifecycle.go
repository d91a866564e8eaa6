package usecase

import (
	"context"
	"encoding/json"
	"sync"

	"marketchat/pkg/errors"
)

// OfferLifecycle settles pending offers. The server owns the status check:
// this layer performs no local pre-validation and no deduplication, a repeat
// accept on a settled offer is passed through and answered by the backend.
type OfferLifecycle struct {
	api    ChatAPI
	tokens TokenSource

	mu        sync.Mutex
	busy      bool
	lastError string
}

func NewOfferLifecycle(api ChatAPI, tokens TokenSource) *OfferLifecycle {
	return &OfferLifecycle{api: api, tokens: tokens}
}

// Accept marks the offer message accepted, optionally overriding the agreed
// price with counterPrice.
func (ol *OfferLifecycle) Accept(ctx context.Context, messageID string, counterPrice *float64) (json.RawMessage, error) {
	return ol.action(ctx, messageID, counterPrice, ol.api.AcceptOffer)
}

// Decline marks the offer message declined.
func (ol *OfferLifecycle) Decline(ctx context.Context, messageID string, counterPrice *float64) (json.RawMessage, error) {
	return ol.action(ctx, messageID, counterPrice, ol.api.DeclineOffer)
}

// State reports the busy flag and the last failure message for rendering.
func (ol *OfferLifecycle) State() (busy bool, lastError string) {
	ol.mu.Lock()
	defer ol.mu.Unlock()
	return ol.busy, ol.lastError
}

type offerAction func(ctx context.Context, token, messageID string, bestPrice *float64) (json.RawMessage, error)

func (ol *OfferLifecycle) action(ctx context.Context, messageID string, counterPrice *float64, call offerAction) (json.RawMessage, error) {
	token, ok := ol.tokens.Token()
	if !ok {
		err := errors.Unauthenticated("Please log in to respond to offers")
		ol.record(err)
		return nil, err
	}

	ol.setBusy(true)
	defer ol.setBusy(false)

	payload, err := call(ctx, token, messageID, counterPrice)
	ol.record(err)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (ol *OfferLifecycle) setBusy(busy bool) {
	ol.mu.Lock()
	ol.busy = busy
	ol.mu.Unlock()
}

func (ol *OfferLifecycle) record(err error) {
	ol.mu.Lock()
	ol.lastError = errors.MessageOf(err)
	ol.mu.Unlock()
}
