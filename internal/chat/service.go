package chat

import (
	"context"
	"strings"

	"github.com/emontecinos/campusmarket-backend/internal/realtime"
	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"github.com/emontecinos/campusmarket-backend/pkg/enums"
	pkgerrors "github.com/emontecinos/campusmarket-backend/pkg/errors"
	"github.com/emontecinos/campusmarket-backend/pkg/logger"
	"github.com/emontecinos/campusmarket-backend/pkg/pagination"
	"github.com/emontecinos/campusmarket-backend/pkg/types"
)

// Presence is the live-delivery port the service pushes through. A false
// return means the recipient had no deliverable session; the message is still
// persisted.
type Presence interface {
	Push(accountID int64, event realtime.Event) bool
}

// Service exposes direct-messaging operations.
type Service interface {
	Send(ctx context.Context, senderID int64, in SendInput) (*MessageDTO, error)
	Conversation(ctx context.Context, userID, peerID int64, params pagination.Params) ([]MessageDTO, types.Pagination, error)
	Conversations(ctx context.Context, userID int64) ([]ConversationSummary, error)
	SetTyping(ctx context.Context, userID int64, userName string, recipientID int64, isTyping bool)
	MarkRead(ctx context.Context, userID, peerID int64) (int64, error)
}

// ServiceParams groups dependencies for the chat service.
type ServiceParams struct {
	Repo     Repository
	Presence Presence
	Logger   *logger.Logger
}

type service struct {
	repo     Repository
	presence Presence
	logg     *logger.Logger
}

// NewService wires chat dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "chat repository required")
	}
	if params.Presence == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "presence hub required")
	}
	return &service{
		repo:     params.Repo,
		presence: params.Presence,
		logg:     params.Logger,
	}, nil
}

// Send persists the message and best-effort pushes it to the recipient's live
// session. Unknown recipients are accepted silently: the message lands in
// history and surfaces once the recipient reads the conversation.
func (s *service) Send(ctx context.Context, senderID int64, in SendInput) (*MessageDTO, error) {
	if in.RecipientID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipient is required")
	}
	if strings.TrimSpace(in.Body) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}

	messageType := enums.MessageTypeText
	if in.Type != "" {
		parsed, err := enums.ParseMessageType(in.Type)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid message type")
		}
		messageType = parsed
	}

	message := models.Message{
		SenderID:    senderID,
		RecipientID: in.RecipientID,
		Body:        in.Body,
		Type:        messageType,
	}
	if err := s.repo.Create(ctx, &message); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist message")
	}

	stored, err := s.repo.FindByID(ctx, message.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load message")
	}
	dto := toDTO(*stored)

	delivered := s.presence.Push(in.RecipientID, realtime.Event{
		Type:    realtime.EventNewMessage,
		Payload: dto,
	})
	if s.logg != nil && !delivered {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"message_id":   dto.ID,
			"recipient_id": in.RecipientID,
		}), "chat.send recipient offline, stored only")
	}

	return &dto, nil
}

// Conversation returns the two-party history oldest first with offset paging.
func (s *service) Conversation(ctx context.Context, userID, peerID int64, params pagination.Params) ([]MessageDTO, types.Pagination, error) {
	if peerID <= 0 {
		return nil, types.Pagination{}, pkgerrors.New(pkgerrors.CodeValidation, "peer id is required")
	}

	page := pagination.NormalizePage(params.Page)
	limit := pagination.NormalizeLimit(params.Limit)
	offset := pagination.Offset(page, limit)

	messages, total, err := s.repo.Conversation(ctx, userID, peerID, offset, limit)
	if err != nil {
		return nil, types.Pagination{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list conversation")
	}

	items := make([]MessageDTO, 0, len(messages))
	for _, message := range messages {
		items = append(items, toDTO(message))
	}

	meta := types.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pagination.TotalPages(total, limit),
	}
	return items, meta, nil
}

// Conversations builds the conversation index: one entry per counterpart
// carrying the latest message. The scan is newest first with id descending, so
// on equal timestamps the higher message id wins.
func (s *service) Conversations(ctx context.Context, userID int64) ([]ConversationSummary, error) {
	messages, err := s.repo.AllTouching(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list conversations")
	}

	unread, err := s.repo.UnreadBySender(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread")
	}

	seen := make(map[int64]bool)
	summaries := make([]ConversationSummary, 0)
	for _, message := range messages {
		counterpartID := message.SenderID
		counterpart := message.Sender
		if counterpartID == userID {
			counterpartID = message.RecipientID
			counterpart = message.Recipient
		}
		if seen[counterpartID] {
			continue
		}
		seen[counterpartID] = true

		ref := accountRef(counterpart)
		if ref == nil {
			ref = &AccountRef{ID: counterpartID}
		}

		summaries = append(summaries, ConversationSummary{
			Counterpart: *ref,
			LastMessage: toDTO(message),
			Unread:      unread[counterpartID],
		})
	}
	return summaries, nil
}

// SetTyping relays a typing indicator to the recipient if they are online.
// Nothing is persisted and an offline recipient is a no-op.
func (s *service) SetTyping(ctx context.Context, userID int64, userName string, recipientID int64, isTyping bool) {
	if recipientID <= 0 {
		return
	}
	s.presence.Push(recipientID, realtime.Event{
		Type: realtime.EventUserTyping,
		Payload: realtime.TypingPayload{
			UserID:   userID,
			UserName: userName,
			IsTyping: isTyping,
		},
	})
}

// MarkRead flags every unread message received from the peer and returns the
// number of rows updated.
func (s *service) MarkRead(ctx context.Context, userID, peerID int64) (int64, error) {
	if peerID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "peer id is required")
	}
	count, err := s.repo.MarkRead(ctx, userID, peerID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark conversation read")
	}
	return count, nil
}
