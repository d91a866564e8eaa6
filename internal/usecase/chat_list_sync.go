package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"marketchat/internal/domain/entity"
	apperrors "marketchat/pkg/errors"
	"marketchat/pkg/logger"
)

// messagesCacheTTL bounds how stale a chat's message history may be served.
const messagesCacheTTL = 5 * time.Minute

// ChatListSync keeps the authenticated user's chat list and per-chat message
// histories, with loading/error state for rendering and a manual Refetch.
// Message histories are cached per chat id; regaining focus never triggers a
// refetch, only TTL expiry or an inbound realtime message does.
type ChatListSync struct {
	api    ChatAPI
	tokens TokenSource

	mu      sync.Mutex
	chats   []entity.Chat
	loading bool
	errMsg  string

	cacheMu sync.Mutex
	cache   map[string]messagesCacheEntry

	// now is swapped in tests to step the cache clock.
	now func() time.Time
}

type messagesCacheEntry struct {
	messages  []entity.Message
	expiresAt time.Time
}

func NewChatListSync(api ChatAPI, tokens TokenSource) *ChatListSync {
	return &ChatListSync{
		api:    api,
		tokens: tokens,
		cache:  make(map[string]messagesCacheEntry),
		now:    time.Now,
	}
}

// FetchChats loads the user's chat list. Every failure is recorded as a
// user-facing message in local state and returned, so callers may branch on
// it as well as render it.
func (cs *ChatListSync) FetchChats(ctx context.Context) error {
	token, ok := cs.tokens.Token()
	if !ok {
		cs.setState(nil, "Please log in to view your chats")
		return apperrors.Unauthenticated("Please log in to view your chats")
	}

	cs.setLoading(true)
	defer cs.setLoading(false)

	chats, err := cs.api.ListChats(ctx, token)
	if err != nil {
		cs.setState(nil, userFacingChatError(err))
		return err
	}

	cs.setState(chats, "")
	return nil
}

// Refetch is the manual re-trigger exposed to callers.
func (cs *ChatListSync) Refetch(ctx context.Context) error {
	return cs.FetchChats(ctx)
}

// FetchMessages returns the chat's message history, served from cache when a
// fresh entry exists. An empty chat id disables the fetch entirely.
func (cs *ChatListSync) FetchMessages(ctx context.Context, chatID string) ([]entity.Message, error) {
	if chatID == "" {
		return nil, nil
	}

	cs.cacheMu.Lock()
	entry, ok := cs.cache[chatID]
	cs.cacheMu.Unlock()
	if ok && cs.now().Before(entry.expiresAt) {
		logger.Debug("chat sync: cache hit for chat %s", chatID)
		return entry.messages, nil
	}

	token, ok := cs.tokens.Token()
	if !ok {
		return nil, apperrors.Unauthenticated("Please log in to view your chats")
	}

	messages, err := cs.api.ListMessages(ctx, token, chatID)
	if err != nil {
		return nil, err
	}

	cs.cacheMu.Lock()
	cs.cache[chatID] = messagesCacheEntry{
		messages:  messages,
		expiresAt: cs.now().Add(messagesCacheTTL),
	}
	cs.cacheMu.Unlock()
	return messages, nil
}

// Invalidate drops the cached history for one chat.
func (cs *ChatListSync) Invalidate(chatID string) {
	cs.cacheMu.Lock()
	delete(cs.cache, chatID)
	cs.cacheMu.Unlock()
}

// HandleInbound is subscribed to the realtime sendMessage event. It drops the
// affected chat's cache so the next FetchMessages sees the new message, and
// refreshes the chat list snapshot's last-message fields.
func (cs *ChatListSync) HandleInbound(payload json.RawMessage) {
	var msg entity.Message
	if err := json.Unmarshal(payload, &msg); err != nil || msg.ChatID == "" {
		logger.Warn("chat sync: undecodable inbound message: %v", err)
		return
	}

	cs.Invalidate(msg.ChatID)

	cs.mu.Lock()
	defer cs.mu.Unlock()
	for i := range cs.chats {
		if cs.chats[i].ID == msg.ChatID {
			if msg.Text != "" {
				cs.chats[i].LastMessage = msg.Text
			}
			cs.chats[i].LastMessageSentAt = msg.CreatedAt
			break
		}
	}
}

// Chats returns the current chat list snapshot.
func (cs *ChatListSync) Chats() []entity.Chat {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := make([]entity.Chat, len(cs.chats))
	copy(out, cs.chats)
	return out
}

func (cs *ChatListSync) Loading() bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.loading
}

// Err returns the last user-facing failure message, empty when the last
// fetch succeeded.
func (cs *ChatListSync) Err() string {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.errMsg
}

func (cs *ChatListSync) setLoading(loading bool) {
	cs.mu.Lock()
	cs.loading = loading
	cs.mu.Unlock()
}

func (cs *ChatListSync) setState(chats []entity.Chat, errMsg string) {
	cs.mu.Lock()
	cs.chats = chats
	cs.errMsg = errMsg
	cs.mu.Unlock()
}

// userFacingChatError maps the fetch failure onto the message the list screen
// renders. 401 and 404 get distinct wording; everything else keeps the
// error's own message.
func userFacingChatError(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code == apperrors.CodeServerRejected {
		switch appErr.Status {
		case http.StatusUnauthorized:
			return "Your session has expired. Please log in again"
		case http.StatusNotFound:
			return "Chat service endpoint not found"
		}
	}
	return apperrors.MessageOf(err)
}
