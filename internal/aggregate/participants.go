package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/core/types"

	"vaultUsers/internal/model"
	"vaultUsers/internal/token"
)

// ParticipantSet accumulates the unique Transfer participants and Approval
// pairs of one vault across all scanned windows.
type ParticipantSet struct {
	users     map[string]struct{}
	approvals map[model.ApprovalPair]struct{}
}

func NewParticipantSet() *ParticipantSet {
	return &ParticipantSet{
		users:     make(map[string]struct{}),
		approvals: make(map[model.ApprovalPair]struct{}),
	}
}

// AddTransfer records both sides of a Transfer log.
func (s *ParticipantSet) AddTransfer(log types.Log) error {
	from, to, err := token.Participants(log)
	if err != nil {
		return fmt.Errorf("transfer: %w", err)
	}
	s.users[from] = struct{}{}
	s.users[to] = struct{}{}
	return nil
}

// AddApproval records the owner/spender pair of an Approval log.
func (s *ParticipantSet) AddApproval(log types.Log) error {
	from, to, err := token.Participants(log)
	if err != nil {
		return fmt.Errorf("approval: %w", err)
	}
	s.approvals[model.ApprovalPair{From: from, To: to}] = struct{}{}
	return nil
}

func (s *ParticipantSet) UserCount() int {
	return len(s.users)
}

func (s *ParticipantSet) ApprovalCount() int {
	return len(s.approvals)
}

// Users returns the user set in ascending order.
func (s *ParticipantSet) Users() []string {
	out := make([]string, 0, len(s.users))
	for user := range s.users {
		out = append(out, user)
	}
	sort.Strings(out)
	return out
}

// Approvals returns the approval pairs ordered by owner, then spender.
func (s *ParticipantSet) Approvals() []model.ApprovalPair {
	out := make([]model.ApprovalPair, 0, len(s.approvals))
	for pair := range s.approvals {
		out = append(out, pair)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// Snapshot freezes the set into a VaultSnapshot for rendering and export.
func (s *ParticipantSet) Snapshot(chainID uint64, vault string, fromBlock, toBlock uint64) model.VaultSnapshot {
	return model.VaultSnapshot{
		ChainID:     chainID,
		Vault:       vault,
		FromBlock:   fromBlock,
		ToBlock:     toBlock,
		Users:       s.Users(),
		Approvals:   s.Approvals(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
}
