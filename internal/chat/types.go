package chat

import (
	"time"

	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"github.com/emontecinos/campusmarket-backend/pkg/enums"
)

// SendInput is the wire body for sending a direct message. Field names follow
// the client contract.
type SendInput struct {
	RecipientID int64  `json:"destinatarioId" validate:"required,gt=0"`
	Body        string `json:"contenido" validate:"required,max=4000"`
	Type        string `json:"tipo" validate:"omitempty,oneof=text image"`
}

// AccountRef is the embedded counterpart view on message payloads.
type AccountRef struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
}

// MessageDTO is the outbound representation of a persisted message.
type MessageDTO struct {
	ID          int64             `json:"id"`
	SenderID    int64             `json:"remitenteId"`
	RecipientID int64             `json:"destinatarioId"`
	Body        string            `json:"contenido"`
	Type        enums.MessageType `json:"tipo"`
	Read        bool              `json:"leido"`
	SentAt      time.Time         `json:"fechaEnvio"`
	Sender      *AccountRef       `json:"remitente,omitempty"`
	Recipient   *AccountRef       `json:"destinatario,omitempty"`
}

// ConversationSummary is one row of the conversation index: the counterpart
// plus the latest message exchanged with them.
type ConversationSummary struct {
	Counterpart AccountRef `json:"contacto"`
	LastMessage MessageDTO `json:"ultimoMensaje"`
	Unread      int64      `json:"noLeidos"`
}

func accountRef(account *models.Account) *AccountRef {
	if account == nil {
		return nil
	}
	return &AccountRef{
		ID:        account.ID,
		Username:  account.Username,
		FirstName: account.FirstName,
		LastName:  account.LastName,
	}
}

func toDTO(message models.Message) MessageDTO {
	return MessageDTO{
		ID:          message.ID,
		SenderID:    message.SenderID,
		RecipientID: message.RecipientID,
		Body:        message.Body,
		Type:        message.Type,
		Read:        message.Read,
		SentAt:      message.SentAt,
		Sender:      accountRef(message.Sender),
		Recipient:   accountRef(message.Recipient),
	}
}
