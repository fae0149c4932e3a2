package model

import (
	"encoding/json"
)

// VaultSnapshot is the finalized participant set of one vault.
type VaultSnapshot struct {
	ChainID     uint64         `json:"chain_id"`
	Vault       string         `json:"vault"`
	FromBlock   uint64         `json:"from_block"`
	ToBlock     uint64         `json:"to_block"`
	Users       []string       `json:"users"`
	Approvals   []ApprovalPair `json:"approvals"`
	GeneratedAt string         `json:"generated_at"`
}

// MarshalJSON keeps empty sets encoded as [] instead of null.
func (s VaultSnapshot) MarshalJSON() ([]byte, error) {
	type Alias VaultSnapshot
	a := Alias(s)
	if a.Users == nil {
		a.Users = []string{}
	}
	if a.Approvals == nil {
		a.Approvals = []ApprovalPair{}
	}
	return json.Marshal(a)
}
