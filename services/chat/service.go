package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"indastreet/models"
	"indastreet/services/enforcement"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrAccountRestricted is returned when a restricted account tries to chat.
	ErrAccountRestricted = errors.New("account is restricted")
	// ErrNotParticipant is returned when the caller has no message in the room.
	ErrNotParticipant = errors.New("not a participant of this chat room")
)

const defaultPollLimit = 100

type MessageStore interface {
	Create(ctx context.Context, msg *models.ChatMessage) error
	ListSince(ctx context.Context, roomID string, since time.Time, limit int64) ([]models.ChatMessage, error)
	IsParticipant(ctx context.Context, roomID, userID string) (bool, error)
}

type RestrictionChecker interface {
	IsAccountRestricted(ctx context.Context, userID string) (bool, error)
}

type ChatService interface {
	Send(ctx context.Context, senderID string, req models.SendMessageRequest) (*models.SendMessageResult, error)
	Poll(ctx context.Context, callerID, roomID string, since time.Time, limit int64) ([]models.ChatMessage, error)
}

type DefaultChatService struct {
	Messages     MessageStore
	Restrictions RestrictionChecker
	Enforcement  enforcement.EnforcementService
	Sealer       *Sealer
	Logger       *zap.Logger
}

func NewChatService(messages MessageStore, restrictions RestrictionChecker, enf enforcement.EnforcementService, sealer *Sealer, logger *zap.Logger) (*DefaultChatService, error) {
	if messages == nil || restrictions == nil || enf == nil || sealer == nil {
		return nil, fmt.Errorf("chat service initialization error: missing dependency")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultChatService{
		Messages:     messages,
		Restrictions: restrictions,
		Enforcement:  enf,
		Sealer:       sealer,
		Logger:       logger,
	}, nil
}

// Send screens a message for contact details and stores it encrypted when
// allowed. A blocked message is not an error; the result carries the warning.
func (s *DefaultChatService) Send(ctx context.Context, senderID string, req models.SendMessageRequest) (*models.SendMessageResult, error) {
	restricted, err := s.Restrictions.IsAccountRestricted(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("Send: %w", err)
	}
	if restricted {
		return nil, ErrAccountRestricted
	}

	verdict, err := s.Enforcement.ValidateAndEnforce(ctx, req.Body, enforcement.Sender{
		UserID:      senderID,
		UserName:    req.SenderName,
		Role:        req.SenderRole,
		ChatRoomID:  req.RoomID,
		RecipientID: req.RecipientID,
	})
	if err != nil {
		return nil, fmt.Errorf("Send: %w", err)
	}
	if !verdict.Allowed {
		return &models.SendMessageResult{
			Allowed:           false,
			WarningMessage:    verdict.WarningMessage,
			AccountRestricted: verdict.AccountRestricted,
		}, nil
	}

	sealed, err := s.Sealer.Seal(req.Body, req.RoomID)
	if err != nil {
		return nil, fmt.Errorf("Send: %w", err)
	}
	msg := &models.ChatMessage{
		ID:          uuid.NewString(),
		RoomID:      req.RoomID,
		SenderID:    senderID,
		SenderRole:  req.SenderRole,
		RecipientID: req.RecipientID,
		Ciphertext:  sealed,
		CreatedAt:   time.Now(),
	}
	if err := s.Messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("Send: %w", err)
	}
	msg.Body = req.Body
	return &models.SendMessageResult{Allowed: true, Message: msg}, nil
}

// Poll returns messages newer than since with their bodies decrypted.
// callerID must have sent or received a message in the room; an empty
// callerID skips the check (admin review). Messages that fail to decrypt
// are skipped and logged.
func (s *DefaultChatService) Poll(ctx context.Context, callerID, roomID string, since time.Time, limit int64) ([]models.ChatMessage, error) {
	if callerID != "" {
		ok, err := s.Messages.IsParticipant(ctx, roomID, callerID)
		if err != nil {
			return nil, fmt.Errorf("Poll: %w", err)
		}
		if !ok {
			return nil, ErrNotParticipant
		}
	}
	if limit <= 0 || limit > defaultPollLimit {
		limit = defaultPollLimit
	}
	stored, err := s.Messages.ListSince(ctx, roomID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("Poll: %w", err)
	}
	out := make([]models.ChatMessage, 0, len(stored))
	for _, m := range stored {
		body, err := s.Sealer.Open(m.Ciphertext, m.RoomID)
		if err != nil {
			s.Logger.Error("Skipping undecryptable chat message", zap.String("messageId", m.ID), zap.Error(err))
			continue
		}
		m.Body = body
		out = append(out, m)
	}
	return out, nil
}
