package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketchat/internal/domain/entity"
)

func TestTrackAssignsTempID(t *testing.T) {
	r := NewReconciler()
	draft := &entity.MessageDraft{ChatID: "c1", Type: entity.MessageTypeText, Text: "hi"}

	tempID := r.Track(draft)
	assert.NotEmpty(t, tempID)
	assert.Equal(t, tempID, draft.TempID)
	require.Len(t, r.Pending(), 1)
}

func TestConfirmMatchesExactlyOnce(t *testing.T) {
	r := NewReconciler()
	draft := &entity.MessageDraft{ChatID: "c1", Type: entity.MessageTypeText, Text: "hi"}
	tempID := r.Track(draft)

	confirmed := &entity.Message{ID: "m1", ChatID: "c1", TempID: tempID}
	assert.True(t, r.Confirm(confirmed))
	// The racing duplicate (realtime echo vs send return) must not match.
	assert.False(t, r.Confirm(confirmed))
	assert.Empty(t, r.Pending())
}

func TestConfirmIgnoresUnknownAndForeignMessages(t *testing.T) {
	r := NewReconciler()
	r.Track(&entity.MessageDraft{ChatID: "c1", Type: entity.MessageTypeText, Text: "hi"})

	assert.False(t, r.Confirm(&entity.Message{ID: "m1", TempID: "someone-elses"}))
	assert.False(t, r.Confirm(&entity.Message{ID: "m2"}))
	assert.False(t, r.Confirm(nil))
	assert.Len(t, r.Pending(), 1)
}

func TestKeepsExistingTempID(t *testing.T) {
	r := NewReconciler()
	draft := &entity.MessageDraft{ChatID: "c1", Type: entity.MessageTypeText, Text: "hi", TempID: "t-fixed"}

	assert.Equal(t, "t-fixed", r.Track(draft))
}
