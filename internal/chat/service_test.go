package chat

import (
	"context"
	"testing"
	"time"

	"github.com/emontecinos/campusmarket-backend/internal/realtime"
	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"github.com/emontecinos/campusmarket-backend/pkg/enums"
	pkgerrors "github.com/emontecinos/campusmarket-backend/pkg/errors"
	"github.com/emontecinos/campusmarket-backend/pkg/pagination"
)

type stubChatRepo struct {
	nextID      int64
	messages    map[int64]*models.Message
	touching    []models.Message
	unread      map[int64]int64
	unreadCalls int
	marked      int64
}

func newStubChatRepo() *stubChatRepo {
	return &stubChatRepo{
		messages: make(map[int64]*models.Message),
		unread:   make(map[int64]int64),
	}
}

func (s *stubChatRepo) Create(ctx context.Context, message *models.Message) error {
	s.nextID++
	message.ID = s.nextID
	if message.SentAt.IsZero() {
		message.SentAt = time.Now().UTC()
	}
	stored := *message
	s.messages[message.ID] = &stored
	return nil
}

func (s *stubChatRepo) FindByID(ctx context.Context, id int64) (*models.Message, error) {
	if stored, ok := s.messages[id]; ok {
		return stored, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "message not found")
}

func (s *stubChatRepo) Conversation(ctx context.Context, userID, peerID int64, offset, limit int) ([]models.Message, int64, error) {
	var rows []models.Message
	for _, message := range s.touching {
		if (message.SenderID == userID && message.RecipientID == peerID) ||
			(message.SenderID == peerID && message.RecipientID == userID) {
			rows = append(rows, message)
		}
	}
	return rows, int64(len(rows)), nil
}

func (s *stubChatRepo) AllTouching(ctx context.Context, userID int64) ([]models.Message, error) {
	return s.touching, nil
}

func (s *stubChatRepo) UnreadBySender(ctx context.Context, userID int64) (map[int64]int64, error) {
	s.unreadCalls++
	return s.unread, nil
}

func (s *stubChatRepo) MarkRead(ctx context.Context, userID, peerID int64) (int64, error) {
	return s.marked, nil
}

type stubPresence struct {
	online bool
	pushes []realtime.Event
	target []int64
}

func (s *stubPresence) Push(accountID int64, event realtime.Event) bool {
	s.pushes = append(s.pushes, event)
	s.target = append(s.target, accountID)
	return s.online
}

func newChatService(t *testing.T, repo Repository, presence Presence) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Presence: presence})
	if err != nil {
		t.Fatalf("wiring chat service: %v", err)
	}
	return svc
}

func TestSendPersistsAndDeliversWhenOnline(t *testing.T) {
	t.Parallel()

	repo := newStubChatRepo()
	presence := &stubPresence{online: true}
	svc := newChatService(t, repo, presence)

	dto, err := svc.Send(context.Background(), 1, SendInput{RecipientID: 2, Body: "hola"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.ID == 0 || dto.SenderID != 1 || dto.RecipientID != 2 {
		t.Fatalf("unexpected message: %+v", dto)
	}
	if dto.Type != enums.MessageTypeText {
		t.Fatalf("expected default text type, got %q", dto.Type)
	}
	if len(presence.pushes) != 1 || presence.pushes[0].Type != realtime.EventNewMessage {
		t.Fatalf("expected one new_message push, got %+v", presence.pushes)
	}
	if presence.target[0] != 2 {
		t.Fatalf("push went to account %d", presence.target[0])
	}
}

func TestSendSucceedsWithRecipientOffline(t *testing.T) {
	t.Parallel()

	repo := newStubChatRepo()
	presence := &stubPresence{online: false}
	svc := newChatService(t, repo, presence)

	dto, err := svc.Send(context.Background(), 1, SendInput{RecipientID: 2, Body: "hola"})
	if err != nil {
		t.Fatalf("offline recipient must not fail the send: %v", err)
	}
	if _, ok := repo.messages[dto.ID]; !ok {
		t.Fatal("message was not persisted")
	}
}

func TestSendValidation(t *testing.T) {
	t.Parallel()

	svc := newChatService(t, newStubChatRepo(), &stubPresence{})

	cases := []struct {
		name string
		in   SendInput
	}{
		{"missing recipient", SendInput{Body: "hola"}},
		{"blank body", SendInput{RecipientID: 2, Body: "   "}},
		{"bad type", SendInput{RecipientID: 2, Body: "hola", Type: "voice"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Send(context.Background(), 1, tc.in)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestConversationsOneSummaryPerCounterpart(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	peerA := &models.Account{ID: 2, Username: "ana"}
	peerB := &models.Account{ID: 3, Username: "beto"}

	repo := newStubChatRepo()
	// Newest first with id descending, the order AllTouching guarantees.
	repo.touching = []models.Message{
		{ID: 9, SenderID: 2, RecipientID: 1, Body: "latest from ana", SentAt: base.Add(2 * time.Hour), Sender: peerA},
		{ID: 8, SenderID: 1, RecipientID: 3, Body: "to beto", SentAt: base.Add(time.Hour), Recipient: peerB},
		{ID: 5, SenderID: 2, RecipientID: 1, Body: "older from ana", SentAt: base, Sender: peerA},
	}
	repo.unread = map[int64]int64{2: 2}

	svc := newChatService(t, repo, &stubPresence{})
	summaries, err := svc.Conversations(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(summaries) != 2 {
		t.Fatalf("expected one summary per counterpart, got %d", len(summaries))
	}
	if summaries[0].Counterpart.ID != 2 || summaries[0].LastMessage.ID != 9 {
		t.Fatalf("expected ana's latest message first, got %+v", summaries[0])
	}
	if summaries[0].Unread != 2 {
		t.Fatalf("expected 2 unread from ana, got %d", summaries[0].Unread)
	}
	if summaries[1].Counterpart.ID != 3 || summaries[1].LastMessage.ID != 8 {
		t.Fatalf("unexpected second summary: %+v", summaries[1])
	}
	if repo.unreadCalls != 1 {
		t.Fatalf("expected one unread query for the whole index, got %d", repo.unreadCalls)
	}
}

func TestConversationsTieBreakOnEqualTimestamps(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	peer := &models.Account{ID: 2, Username: "ana"}

	repo := newStubChatRepo()
	repo.touching = []models.Message{
		{ID: 7, SenderID: 2, RecipientID: 1, Body: "second", SentAt: at, Sender: peer},
		{ID: 6, SenderID: 2, RecipientID: 1, Body: "first", SentAt: at, Sender: peer},
	}

	svc := newChatService(t, repo, &stubPresence{})
	summaries, err := svc.Conversations(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 1 || summaries[0].LastMessage.ID != 7 {
		t.Fatalf("expected the higher id to win the tie, got %+v", summaries)
	}
}

func TestConversationRequiresPeer(t *testing.T) {
	t.Parallel()

	svc := newChatService(t, newStubChatRepo(), &stubPresence{})
	_, _, err := svc.Conversation(context.Background(), 1, 0, pagination.Params{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetTypingOfflineIsNoop(t *testing.T) {
	t.Parallel()

	presence := &stubPresence{online: false}
	svc := newChatService(t, newStubChatRepo(), presence)

	svc.SetTyping(context.Background(), 1, "ana", 2, true)
	if len(presence.pushes) != 1 || presence.pushes[0].Type != realtime.EventUserTyping {
		t.Fatalf("expected one typing push attempt, got %+v", presence.pushes)
	}

	// Invalid recipient never reaches the hub.
	svc.SetTyping(context.Background(), 1, "ana", 0, true)
	if len(presence.pushes) != 1 {
		t.Fatal("typing with no recipient must not push")
	}
}
