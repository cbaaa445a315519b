package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/online-school/pkg/logger"
)

// PolicyStore persists a Policy. ApplyPolicy upserts roles and permissions by
// name and replaces the whole grant table in one transaction.
type PolicyStore interface {
	ApplyPolicy(ctx context.Context, policy Policy) error
}

type PolicySeeder struct {
	store  PolicyStore
	logger *slog.Logger
}

func NewPolicySeeder(store PolicyStore, lg *slog.Logger) *PolicySeeder {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &PolicySeeder{store: store, logger: lg}
}

// Seed validates the policy and applies it. Grants present in storage but
// absent from the policy do not survive.
func (s *PolicySeeder) Seed(ctx context.Context, policy Policy) error {
	if err := policy.Validate(); err != nil {
		return fmt.Errorf("invalid policy: %w", err)
	}

	if err := s.store.ApplyPolicy(ctx, policy); err != nil {
		return fmt.Errorf("apply policy: %w", err)
	}

	s.logger.InfoContext(ctx, "policy seeded",
		"roles", len(policy.Roles),
		"permissions", len(policy.Permissions),
		"grants", policy.GrantCount())
	return nil
}
