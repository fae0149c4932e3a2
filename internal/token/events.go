package token

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	// TransferTopic is keccak256("Transfer(address,address,uint256)").
	TransferTopic = common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef")
	// ApprovalTopic is keccak256("Approval(address,address,uint256)").
	ApprovalTopic = common.HexToHash("0x8c5be1e5ebec7d5bd14f71427d1e84f3dd0314c0f7b2291e5b200ac8c7c3b925")
)

// TopicAddress returns the low 20 bytes of an indexed topic as lowercase 0x hex.
// The upper 12 bytes are ignored, so a topic that is not a padded address still
// yields a value.
func TopicAddress(topic common.Hash) string {
	return hexutil.Encode(topic[common.HashLength-common.AddressLength:])
}

// Participants returns the two indexed addresses of a Transfer or Approval log.
func Participants(log types.Log) (string, string, error) {
	if len(log.Topics) < 3 {
		return "", "", fmt.Errorf("log %s:%d has %d topics, want at least 3", log.TxHash.Hex(), log.Index, len(log.Topics))
	}
	return TopicAddress(log.Topics[1]), TopicAddress(log.Topics[2]), nil
}
