package aggregates

import (
	"context"

	"github.com/yungbote/applytrack-backend/internal/domain/proposals"
)

// ProposalAggregateContract reserves the proposal status column and the
// content edits that must not race a status change.
var ProposalAggregateContract = Contract{
	Name:   "ProposalAggregate",
	Tables: []string{"experience_proposals"},
	Guards: []RepoGuard{
		{Repo: "ProposalRepo", Methods: []string{"UpdateFields"}, Columns: []string{"status", "proposed_content"}},
	},
	Writes: []string{"Accept", "Reject", "ReviseContent"},
}

// ProposalAggregate owns the experience proposal lifecycle.
//
// Accepting or rejecting a proposal that is no longer pending fails with
// CodeInvariantViolation and the message "Proposal is already <status>".
type ProposalAggregate interface {
	Aggregate

	// Accept applies the proposal's change and marks it accepted atomically.
	// A failed change leaves the proposal pending.
	Accept(ctx context.Context, proposalID uint) (*AcceptProposalResult, error)

	// Reject marks a pending proposal rejected without touching the profile.
	Reject(ctx context.Context, proposalID uint) (*proposals.Proposal, error)

	// ReviseContent replaces proposed_content while the proposal is still
	// pending. The caller validates content against the proposal type.
	ReviseContent(ctx context.Context, proposalID uint, content []byte) (*proposals.Proposal, error)
}

type AcceptProposalResult struct {
	Proposal *proposals.Proposal
	// AchievementID is set when the change created, updated or deleted an achievement.
	AchievementID *uint
}
