package model

// ApprovalPair is an owner/spender tuple taken from an Approval log.
type ApprovalPair struct {
	From string `json:"from"`
	To   string `json:"to"`
}
