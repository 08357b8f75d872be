package enforcement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"indastreet/metrics"
	"indastreet/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	WarningThreshold     = 3
	RestrictionThreshold = 5

	maxStoredMessage  = 500
	maxStoredDetected = 100
)

// ErrActionRequired is returned when a review carries no admin action.
var ErrActionRequired = errors.New("review action is required")

// ViolationStore is the slice of the records repository enforcement needs.
type ViolationStore interface {
	CreateContactViolation(ctx context.Context, v models.ContactViolation) error
	CountContactViolations(ctx context.Context, userID string) (int64, error)
	FlagViolationRestricted(ctx context.Context, violationID string) error
	ListUnreviewedViolations(ctx context.Context, limit int64) ([]models.ContactViolation, error)
	MarkViolationReviewed(ctx context.Context, violationID, adminID, action string) error
	RestrictAccount(ctx context.Context, userID, role, reason string) error
}

// ProviderRestrictor flips a provider's status to RESTRICTED.
type ProviderRestrictor interface {
	Restrict(ctx context.Context, id, reason string) error
}

// Notifier tells admins about violations and restrictions.
type Notifier interface {
	NotifyViolation(ctx context.Context, v models.ContactViolation) error
	NotifyRestriction(ctx context.Context, userID, userName, role string) error
}

// Sender identifies who wrote a message and where.
type Sender struct {
	UserID      string
	UserName    string
	Role        string
	ChatRoomID  string
	RecipientID string
}

// EnforcementResult tells the chat layer what to do with a message.
type EnforcementResult struct {
	Allowed           bool
	WarningMessage    string
	AccountRestricted bool
	Violation         *models.ContactViolation
}

type EnforcementService interface {
	ValidateAndEnforce(ctx context.Context, msg string, s Sender) (EnforcementResult, error)
	ViolationsForReview(ctx context.Context, limit int64) ([]models.ContactViolation, error)
	MarkReviewed(ctx context.Context, violationID, adminID, action string) error
}

type DefaultEnforcementService struct {
	Store     ViolationStore
	Providers ProviderRestrictor
	Notifier  Notifier
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewEnforcementService(store ViolationStore, providers ProviderRestrictor, notifier Notifier, logger *zap.Logger) *DefaultEnforcementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultEnforcementService{
		Store:     store,
		Providers: providers,
		Notifier:  notifier,
		Logger:    logger,
		Now:       time.Now,
	}
}

// ValidateAndEnforce blocks messages carrying contact details, records the
// attempt and restricts the sender once the restriction threshold is reached.
func (s *DefaultEnforcementService) ValidateAndEnforce(ctx context.Context, msg string, sender Sender) (EnforcementResult, error) {
	check := CheckMessage(msg)
	if !check.IsViolation {
		return EnforcementResult{Allowed: true}, nil
	}

	now := s.Now()
	v := models.ContactViolation{
		ViolationID:     NewViolationID(now),
		UserID:          sender.UserID,
		UserName:        sender.UserName,
		UserRole:        sender.Role,
		ViolationType:   check.ViolationType,
		OriginalMessage: truncate(msg, maxStoredMessage),
		DetectedContent: truncate(check.DetectedContent, maxStoredDetected),
		ChatRoomID:      sender.ChatRoomID,
		RecipientID:     sender.RecipientID,
		CreatedAt:       now,
	}

	// Counted after the insert so every concurrent attempt includes itself.
	if err := s.Store.CreateContactViolation(ctx, v); err != nil {
		return EnforcementResult{}, fmt.Errorf("ValidateAndEnforce: %w", err)
	}
	total, err := s.Store.CountContactViolations(ctx, sender.UserID)
	if err != nil {
		return EnforcementResult{}, fmt.Errorf("ValidateAndEnforce: %w", err)
	}
	restrict := total >= RestrictionThreshold
	if restrict {
		v.AccountRestricted = true
		if err := s.Store.FlagViolationRestricted(ctx, v.ViolationID); err != nil {
			s.Logger.Error("Failed to flag restricting violation", zap.String("violationId", v.ViolationID), zap.Error(err))
		}
	}
	metrics.RecordContactViolation(string(check.ViolationType))
	s.Logger.Warn("Contact sharing attempt blocked",
		zap.String("userId", sender.UserID),
		zap.String("role", sender.Role),
		zap.String("type", string(check.ViolationType)),
		zap.Int64("violations", total))

	if err := s.Notifier.NotifyViolation(ctx, v); err != nil {
		s.Logger.Error("Failed to notify admin of violation", zap.String("violationId", v.ViolationID), zap.Error(err))
	}

	res := EnforcementResult{Allowed: false, Violation: &v}
	switch {
	case restrict:
		if err := s.restrict(ctx, sender); err != nil {
			return EnforcementResult{}, err
		}
		res.AccountRestricted = true
		res.WarningMessage = RestrictionMessage
	case total >= WarningThreshold:
		res.WarningMessage = RepeatedWarningMessage
	default:
		res.WarningMessage = WarningMessage
	}
	return res, nil
}

func (s *DefaultEnforcementService) restrict(ctx context.Context, sender Sender) error {
	reason := fmt.Sprintf("Repeated contact sharing attempts (%d+ violations)", RestrictionThreshold)
	if err := s.Store.RestrictAccount(ctx, sender.UserID, sender.Role, reason); err != nil {
		return fmt.Errorf("failed to restrict account %s: %w", sender.UserID, err)
	}
	if sender.Role == models.RoleTherapist || sender.Role == models.RoleBusiness {
		if err := s.Providers.Restrict(ctx, sender.UserID, reason); err != nil {
			// The account restriction above already blocks chat.
			s.Logger.Error("Failed to mark provider restricted", zap.String("providerId", sender.UserID), zap.Error(err))
		}
	}
	metrics.RecordRestriction()
	s.Logger.Warn("Account restricted", zap.String("userId", sender.UserID), zap.String("role", sender.Role))

	if err := s.Notifier.NotifyRestriction(ctx, sender.UserID, sender.UserName, sender.Role); err != nil {
		s.Logger.Error("Failed to notify admin of restriction", zap.String("userId", sender.UserID), zap.Error(err))
	}
	return nil
}

func (s *DefaultEnforcementService) ViolationsForReview(ctx context.Context, limit int64) ([]models.ContactViolation, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.Store.ListUnreviewedViolations(ctx, limit)
}

func (s *DefaultEnforcementService) MarkReviewed(ctx context.Context, violationID, adminID, action string) error {
	if strings.TrimSpace(action) == "" {
		return ErrActionRequired
	}
	return s.Store.MarkViolationReviewed(ctx, violationID, adminID, action)
}

// NewViolationID returns an id of the form VIO_<unix ms>_<6 chars>.
func NewViolationID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("VIO_%d_%s", now.UnixMilli(), suffix)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
