package indexer

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ParseVaults converts vault address strings into common.Address, dropping
// blanks and duplicates while keeping the given order.
func ParseVaults(inputs []string) ([]common.Address, error) {
	vaults := make([]common.Address, 0, len(inputs))
	seen := make(map[common.Address]struct{}, len(inputs))
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !common.IsHexAddress(input) {
			return nil, fmt.Errorf("invalid vault address: %s", input)
		}
		vault := common.HexToAddress(input)
		if _, ok := seen[vault]; ok {
			continue
		}
		seen[vault] = struct{}{}
		vaults = append(vaults, vault)
	}
	return vaults, nil
}
