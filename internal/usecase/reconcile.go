package usecase

import (
	"sync"

	"github.com/google/uuid"

	"marketchat/internal/domain/entity"
)

// Reconciler is the explicit two-phase ledger between client drafts and
// server-confirmed messages. A draft is tracked under its temp id; when the
// confirmed record arrives (via the send call's return or via the realtime
// channel, in either order) it is matched strictly on temp id equality and
// promoted. Position and timing play no part in matching.
type Reconciler struct {
	mu      sync.Mutex
	pending map[string]*entity.MessageDraft
}

func NewReconciler() *Reconciler {
	return &Reconciler{pending: make(map[string]*entity.MessageDraft)}
}

// Track registers a draft, assigning a temp id when it has none, and returns
// the temp id the confirmation must carry.
func (r *Reconciler) Track(draft *entity.MessageDraft) string {
	if draft.TempID == "" {
		draft.TempID = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[draft.TempID] = draft
	return draft.TempID
}

// Confirm promotes the draft matching the message's temp id. It reports
// whether a pending draft was matched; a second confirmation for the same
// temp id (the send return racing the realtime echo) reports false, which is
// the caller's signal to skip a duplicate render.
func (r *Reconciler) Confirm(msg *entity.Message) bool {
	if msg == nil || msg.TempID == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pending[msg.TempID]; !ok {
		return false
	}
	delete(r.pending, msg.TempID)
	return true
}

// Pending returns the drafts still awaiting confirmation.
func (r *Reconciler) Pending() []*entity.MessageDraft {
	r.mu.Lock()
	defer r.mu.Unlock()
	drafts := make([]*entity.MessageDraft, 0, len(r.pending))
	for _, d := range r.pending {
		drafts = append(drafts, d)
	}
	return drafts
}
