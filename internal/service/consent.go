package service

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "github.com/vardhmanmills/storefront/pkg/errors"

	"github.com/vardhmanmills/storefront/internal/broadcast"
	"github.com/vardhmanmills/storefront/internal/domain"
	"github.com/vardhmanmills/storefront/internal/repository"
)

// PolicyVersioner supplies the live cookie-policy version stamped onto every
// saved consent record.
type PolicyVersioner interface {
	CookiePolicyVersion() string
}

// ConsentStatus is what the banner renders: the stored decision, if any, and
// whether the shopper must be prompted (no decision yet, or the policy moved
// on since they decided).
type ConsentStatus struct {
	Record        *domain.ConsentRecord `json:"record"`
	NeedsDecision bool                  `json:"needs_decision"`
	PolicyVersion string                `json:"policy_version"`
}

// ConsentService manages per-session cookie consent decisions.
type ConsentService struct {
	repo   repository.ConsentRepository
	policy PolicyVersioner
	bus    *broadcast.Bus
	logger *slog.Logger
}

// NewConsentService creates a new consent service.
func NewConsentService(repo repository.ConsentRepository, policy PolicyVersioner, bus *broadcast.Bus, logger *slog.Logger) *ConsentService {
	return &ConsentService{repo: repo, policy: policy, bus: bus, logger: logger}
}

// Status returns the session's consent decision and whether the banner must
// re-prompt.
func (s *ConsentService) Status(ctx context.Context, sessionID string) (*ConsentStatus, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	record, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get consent: %w", err)
	}

	current := s.policy.CookiePolicyVersion()
	return &ConsentStatus{
		Record:        record,
		NeedsDecision: record == nil || record.PolicyVersion != current,
		PolicyVersion: current,
	}, nil
}

// Save records the shopper's category choices, stamped with the live policy
// version. Unknown categories are dropped; necessary is always granted.
func (s *ConsentService) Save(ctx context.Context, sessionID string, categories map[string]bool) (*domain.ConsentRecord, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if categories == nil {
		return nil, apperrors.InvalidInput("categories are required")
	}

	policyVersion := s.policy.CookiePolicyVersion()

	var saved *domain.ConsentRecord
	for attempt := 0; attempt < saveAttempts; attempt++ {
		existing, err := s.repo.Get(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("get consent: %w", err)
		}

		record := domain.NewConsentRecord(sessionID, categories, policyVersion)
		var expected int64
		if existing != nil {
			expected = existing.Version
		}

		ok, err := s.repo.SaveIfVersion(ctx, record, expected)
		if err != nil {
			return nil, fmt.Errorf("save consent: %w", err)
		}
		if ok {
			saved = record
			break
		}

		s.logger.DebugContext(ctx, "consent version conflict, retrying",
			slog.String("session_id", sessionID),
			slog.Int("attempt", attempt+1),
		)
	}
	if saved == nil {
		return nil, apperrors.Conflict("consent was modified concurrently, please retry")
	}

	s.bus.Publish(broadcast.ListChange{
		List:      broadcast.ListConsent,
		Kind:      broadcast.ChangeUpdated,
		SessionID: sessionID,
	})

	s.logger.InfoContext(ctx, "consent recorded",
		slog.String("session_id", sessionID),
		slog.String("policy_version", policyVersion),
		slog.Bool("analytics", saved.Allows(domain.ConsentAnalytics)),
		slog.Bool("marketing", saved.Allows(domain.ConsentMarketing)),
	)
	return saved, nil
}

// Withdraw deletes the stored decision, forcing the banner to re-prompt.
func (s *ConsentService) Withdraw(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete consent: %w", err)
	}

	s.bus.Publish(broadcast.ListChange{
		List:      broadcast.ListConsent,
		Kind:      broadcast.ChangeCleared,
		SessionID: sessionID,
	})

	s.logger.InfoContext(ctx, "consent withdrawn", slog.String("session_id", sessionID))
	return nil
}
