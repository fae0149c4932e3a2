package token

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const erc20EventsABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "from", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "to", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "value", "type": "uint256"}
    ],
    "name": "Transfer",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "owner", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "spender", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "value", "type": "uint256"}
    ],
    "name": "Approval",
    "type": "event"
  }
]`

var (
	erc20EventsABI     abi.ABI
	erc20EventsABIOnce sync.Once
	erc20EventsABIErr  error
)

// EventsABI returns the parsed ERC20 Transfer/Approval event ABI.
func EventsABI() (abi.ABI, error) {
	erc20EventsABIOnce.Do(func() {
		erc20EventsABI, erc20EventsABIErr = abi.JSON(strings.NewReader(erc20EventsABIJSON))
	})
	return erc20EventsABI, erc20EventsABIErr
}

// Signatures maps canonical event signatures to their topic0 hash.
func Signatures() (map[string]string, error) {
	parsed, err := EventsABI()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(parsed.Events))
	for _, event := range parsed.Events {
		out[event.Sig] = event.ID.Hex()
	}
	return out, nil
}
