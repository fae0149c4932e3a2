package model

const (
	KindUser     = "user"
	KindApproval = "approval"
)

// ParticipantRow is the flat CSV form of a snapshot entry.
type ParticipantRow struct {
	Vault   string `csv:"vault"`
	Kind    string `csv:"kind"`
	Address string `csv:"address"`
	Spender string `csv:"spender"`
}

// Rows flattens a snapshot: users first, then approval pairs.
func (s VaultSnapshot) Rows() []ParticipantRow {
	rows := make([]ParticipantRow, 0, len(s.Users)+len(s.Approvals))
	for _, user := range s.Users {
		rows = append(rows, ParticipantRow{Vault: s.Vault, Kind: KindUser, Address: user})
	}
	for _, pair := range s.Approvals {
		rows = append(rows, ParticipantRow{Vault: s.Vault, Kind: KindApproval, Address: pair.From, Spender: pair.To})
	}
	return rows
}
