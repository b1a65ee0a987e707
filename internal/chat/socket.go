package chat

import (
	"context"
	"encoding/json"

	"github.com/emontecinos/campusmarket-backend/internal/realtime"
	pkgerrors "github.com/emontecinos/campusmarket-backend/pkg/errors"
	"github.com/emontecinos/campusmarket-backend/pkg/logger"
)

// typingInput is the inbound payload for typing_start/typing_stop frames.
type typingInput struct {
	RecipientID int64 `json:"destinatarioId"`
}

// SocketHandler translates websocket frames into chat service calls. Failures
// are answered with message_error frames on the same connection; the socket
// stays open.
type SocketHandler struct {
	service Service
	logg    *logger.Logger
}

// NewSocketHandler builds the frame dispatcher for live chat connections.
func NewSocketHandler(service Service, logg *logger.Logger) (*SocketHandler, error) {
	if service == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "chat service required")
	}
	return &SocketHandler{service: service, logg: logg}, nil
}

// OnSendMessage persists and routes a send_message frame, echoing the stored
// message back to the sender as message_sent.
func (h *SocketHandler) OnSendMessage(ctx context.Context, peer realtime.Peer, payload json.RawMessage) {
	var in SendInput
	if err := json.Unmarshal(payload, &in); err != nil {
		peer.TrySend(realtime.Event{
			Type:    realtime.EventMessageError,
			Payload: realtime.ErrorPayload{Error: "malformed send_message payload"},
		})
		return
	}

	dto, err := h.service.Send(ctx, peer.AccountID(), in)
	if err != nil {
		peer.TrySend(realtime.Event{
			Type:    realtime.EventMessageError,
			Payload: realtime.ErrorPayload{Error: publicError(err)},
		})
		return
	}

	peer.TrySend(realtime.Event{
		Type:    realtime.EventMessageSent,
		Payload: dto,
	})
}

// OnTyping relays a typing indicator; invalid payloads are dropped silently
// since typing state is ephemeral.
func (h *SocketHandler) OnTyping(ctx context.Context, peer realtime.Peer, payload json.RawMessage, isTyping bool) {
	var in typingInput
	if err := json.Unmarshal(payload, &in); err != nil {
		return
	}
	h.service.SetTyping(ctx, peer.AccountID(), peer.DisplayName(), in.RecipientID, isTyping)
}

func publicError(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		meta := pkgerrors.MetadataFor(typed.Code())
		if meta.DetailsAllowed && typed.Message() != "" {
			return typed.Message()
		}
		return meta.PublicMessage
	}
	return "message could not be processed"
}
