package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"marketchat/internal/adapter/backend"
	"marketchat/internal/domain/entity"
	"marketchat/internal/infrastructure/credential"
	"marketchat/internal/infrastructure/realtime"
	"marketchat/internal/usecase"
	"marketchat/pkg/config"
	"marketchat/pkg/logger"
)

// session ties together the pieces a logged-in user works with. It owns the
// realtime connection: nothing below this level ever connects or disconnects.
type session struct {
	userID   string
	store    *credential.Store
	rt       *realtime.Manager
	channel  *usecase.MessageChannel
	offers   *usecase.OfferLifecycle
	sync     *usecase.ChatListSync
	ledger   *usecase.Reconciler
	openChat string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := credential.NewStore(cfg.CredentialPath)
	if err != nil {
		log.Fatalf("Failed to open credential store: %v", err)
	}

	api := backend.NewClient(cfg.BackendBaseURL, time.Duration(cfg.RequestTimeout)*time.Second)
	rt := realtime.NewManager(cfg.SocketURL)

	s := &session{
		store:   store,
		rt:      rt,
		channel: usecase.NewMessageChannel(api, rt, store),
		offers:  usecase.NewOfferLifecycle(api, store),
		sync:    usecase.NewChatListSync(api, store),
		ledger:  usecase.NewReconciler(),
	}

	rt.On(realtime.EventSendMessage, s.sync.HandleInbound)
	rt.On(realtime.EventSendMessage, s.printInbound)
	rt.On(realtime.EventConnectError, func(payload json.RawMessage) {
		fmt.Printf("\r[realtime] connection lost: %s\n> ", string(payload))
	})

	if store.ExpiresWithin(5 * time.Minute) {
		fmt.Println("Your session token expires soon; /login again to avoid interruptions.")
	}

	fmt.Println("marketchat — commands: /login <userId> <token>, /chats, /open <chatId>,")
	fmt.Println("  /send <text>, /offer <amount>, /accept <msgId> [price], /decline <msgId> [price], /quit")
	s.loop()

	rt.Disconnect()
}

func (s *session) loop() {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		switch parts[0] {
		case "/quit":
			cancel()
			return
		case "/login":
			s.login(parts[1:])
		case "/chats":
			s.listChats(ctx)
		case "/open":
			s.open(ctx, parts[1:])
		case "/send":
			s.send(ctx, strings.TrimSpace(strings.TrimPrefix(line, "/send")))
		case "/offer":
			s.offer(ctx, parts[1:])
		case "/accept":
			s.settle(ctx, parts[1:], s.offers.Accept)
		case "/decline":
			s.settle(ctx, parts[1:], s.offers.Decline)
		default:
			fmt.Println("Unknown command")
		}
		cancel()
	}
}

func (s *session) login(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: /login <userId> <token>")
		return
	}
	if err := s.store.Save(args[1]); err != nil {
		fmt.Printf("Could not store credential: %v\n", err)
		return
	}
	s.userID = args[0]

	if _, err := s.rt.Connect(s.userID); err != nil {
		logger.Error("realtime connect failed: %v", err)
	}
	fmt.Printf("Logged in as %s\n", s.userID)
}

func (s *session) listChats(ctx context.Context) {
	if err := s.sync.FetchChats(ctx); err != nil {
		fmt.Println(s.sync.Err())
		return
	}
	for _, chat := range s.sync.Chats() {
		other := chat.OtherParticipant(s.userID)
		fmt.Printf("  %s  [%s] %s — %s\n", chat.ID, other.Username, chat.Product.Name, chat.LastMessage)
	}
}

func (s *session) open(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: /open <chatId>")
		return
	}
	s.openChat = args[0]

	messages, err := s.sync.FetchMessages(ctx, s.openChat)
	if err != nil {
		fmt.Printf("Could not load messages: %v\n", err)
		return
	}
	for i := range messages {
		printMessage(&messages[i])
	}
}

func (s *session) send(ctx context.Context, text string) {
	if s.openChat == "" {
		fmt.Println("Open a chat first with /open")
		return
	}
	draft := &entity.MessageDraft{ChatID: s.openChat, Type: entity.MessageTypeText, Text: text}
	s.ledger.Track(draft)

	msg, err := s.channel.Send(ctx, draft)
	if err != nil {
		fmt.Printf("Send failed: %v\n", err)
		return
	}
	if s.ledger.Confirm(msg) {
		fmt.Printf("[me] %s (id %s)\n", msg.Text, msg.ID)
	}
}

func (s *session) offer(ctx context.Context, args []string) {
	if s.openChat == "" || len(args) < 1 {
		fmt.Println("Usage (inside an open chat): /offer <amount>")
		return
	}
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		fmt.Println("Amount must be numeric")
		return
	}

	draft := &entity.MessageDraft{
		ChatID: s.openChat,
		Type:   entity.MessageTypeOffer,
		Offer:  &entity.Offer{Amount: amount, Status: entity.OfferStatusSent, ProposedBy: s.userID},
	}
	s.ledger.Track(draft)

	msg, err := s.channel.Send(ctx, draft)
	if err != nil {
		fmt.Printf("Offer failed: %v\n", err)
		return
	}
	if s.ledger.Confirm(msg) {
		fmt.Printf("[me] offered %.2f (id %s)\n", amount, msg.ID)
	}
}

type settleFn func(ctx context.Context, messageID string, counterPrice *float64) (json.RawMessage, error)

func (s *session) settle(ctx context.Context, args []string, fn settleFn) {
	if len(args) < 1 {
		fmt.Println("Usage: /accept|/decline <messageId> [price]")
		return
	}
	var counter *float64
	if len(args) > 1 {
		if price, err := strconv.ParseFloat(args[1], 64); err == nil {
			counter = &price
		}
	}

	if _, err := fn(ctx, args[0], counter); err != nil {
		_, lastErr := s.offers.State()
		fmt.Println(lastErr)
		return
	}
	s.sync.Invalidate(s.openChat)
	fmt.Println("Done")
}

// printInbound renders pushed messages, skipping the echo of our own sends:
// a confirmed temp id means this message was already rendered locally.
func (s *session) printInbound(payload json.RawMessage) {
	var msg entity.Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return
	}
	if msg.TempID != "" && !s.ledger.Confirm(&msg) && msg.Sender.ID == s.userID {
		return
	}
	fmt.Print("\r")
	printMessage(&msg)
	fmt.Print("> ")
}

func printMessage(msg *entity.Message) {
	stamp := msg.CreatedAt.Format("15:04:05")
	switch msg.Type {
	case entity.MessageTypeOffer:
		if msg.Offer != nil {
			fmt.Printf("[%s] %s offered %.2f (%s) — id %s\n", stamp, msg.Sender.Username, msg.Offer.Amount, msg.Offer.Status, msg.ID)
			return
		}
		fallthrough
	case entity.MessageTypeText:
		fmt.Printf("[%s] %s: %s\n", stamp, msg.Sender.Username, msg.Text)
	default:
		fmt.Printf("[%s] %s: [%s]\n", stamp, msg.Sender.Username, msg.Type)
	}
}
