package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"optihub/internal/fraud"
	"optihub/internal/metrics"
)

// maxAccountsPerOrigin is how many distinct accounts may share one
// network origin before the detector flags it.
const maxAccountsPerOrigin = 3

const eventSecurityViolation = "security_violation"

type UsageRepository interface {
	DistinctAccountsForOrigin(ctx context.Context, origin string) ([]string, error)
}

type EventRepository interface {
	Insert(ctx context.Context, e *fraud.SecurityEvent) error
	ListByOrigin(ctx context.Context, origin string) ([]*fraud.SecurityEvent, error)
}

// Check is the advisory result of a multi-account inspection. It feeds
// the dashboard/admin flow and must never gate provisioning.
type Check struct {
	Blocked      bool   `json:"blocked"`
	Reason       string `json:"reason,omitempty"`
	AccountCount int    `json:"account_count"`
}

type Service struct {
	usage  UsageRepository
	events EventRepository
	logger *zap.Logger
}

func NewService(usage UsageRepository, events EventRepository, logger *zap.Logger) *Service {
	return &Service{usage: usage, events: events, logger: logger}
}

func (s *Service) AccountsSeenFrom(ctx context.Context, origin string) ([]string, error) {
	accounts, err := s.usage.DistinctAccountsForOrigin(ctx, origin)
	if err != nil {
		return nil, fmt.Errorf("accounts for origin: %w", err)
	}
	return accounts, nil
}

// FlagIfExcessive flags an origin shared by too many accounts. It runs
// on a best-effort administrative path and reports instead of failing:
// a broken event write is logged and the check result still returned.
func (s *Service) FlagIfExcessive(ctx context.Context, accountID, origin string, accounts []string) Check {
	check := Check{AccountCount: len(accounts)}
	if len(accounts) <= maxAccountsPerOrigin {
		return check
	}

	check.Blocked = true
	check.Reason = fmt.Sprintf("%d accounts detected from this network", len(accounts))

	s.logger.Warn("network origin shared by multiple accounts",
		zap.String("account_id", accountID),
		zap.String("network_origin", origin),
		zap.Int("account_count", len(accounts)))

	// One violation row per origin. Repeated checks of an already
	// flagged origin read the ledger instead of re-appending to it.
	if s.alreadyFlagged(ctx, origin) {
		return check
	}

	event := &fraud.SecurityEvent{
		AccountID:     accountID,
		EventType:     eventSecurityViolation,
		Details:       check.Reason,
		NetworkOrigin: origin,
		RiskScore:     90,
	}
	if err := s.events.Insert(ctx, event); err != nil {
		s.logger.Error("failed to record security event",
			zap.String("account_id", accountID),
			zap.String("network_origin", origin),
			zap.Error(err))
	} else {
		metrics.SecurityEventsTotal.Inc()
	}

	return check
}

func (s *Service) alreadyFlagged(ctx context.Context, origin string) bool {
	events, err := s.events.ListByOrigin(ctx, origin)
	if err != nil {
		s.logger.Error("failed to list security events",
			zap.String("network_origin", origin),
			zap.Error(err))
		return false
	}
	for _, e := range events {
		if e.EventType == eventSecurityViolation {
			return true
		}
	}
	return false
}
