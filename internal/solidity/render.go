package solidity

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/ethereum/go-ethereum/common"

	"vaultUsers/internal/model"
)

const (
	DefaultLicense = "BSL-1.1"
	DefaultPragma  = "0.8.25"
)

const fixtureTemplate = `// SPDX-License-Identifier: {{.License}}
pragma solidity {{.Pragma}};

contract Users_{{.Vault}} {
    // Possible users with non-zero balances
    {{.Users}}
    // Possible users with non-zero ` + "`from`" + ` approvals
    {{.ApprovalsFrom}}
    // Possible users with non-zero ` + "`to`" + ` approvals
    {{.ApprovalsTo}}
}
`

var fixture = template.Must(template.New("fixture").Parse(fixtureTemplate))

// Options controls fixture rendering.
type Options struct {
	License string
	Pragma  string
	// Checksum renders array members in EIP-55 mixed case instead of lowercase.
	Checksum bool
}

type fixtureData struct {
	License       string
	Pragma        string
	Vault         string
	Users         string
	ApprovalsFrom string
	ApprovalsTo   string
}

// Render produces the Users_<vault> contract for a snapshot.
func Render(snapshot model.VaultSnapshot, opts Options) ([]byte, error) {
	if snapshot.Vault == "" {
		return nil, fmt.Errorf("vault address is required")
	}
	if opts.License == "" {
		opts.License = DefaultLicense
	}
	if opts.Pragma == "" {
		opts.Pragma = DefaultPragma
	}

	approvalsFrom := make([]string, 0, len(snapshot.Approvals))
	approvalsTo := make([]string, 0, len(snapshot.Approvals))
	for _, pair := range snapshot.Approvals {
		approvalsFrom = append(approvalsFrom, pair.From)
		approvalsTo = append(approvalsTo, pair.To)
	}

	data := fixtureData{
		License:       opts.License,
		Pragma:        opts.Pragma,
		Vault:         snapshot.Vault,
		Users:         declareArray("users", snapshot.Users, opts.Checksum),
		ApprovalsFrom: declareArray("approvalsFrom", approvalsFrom, opts.Checksum),
		ApprovalsTo:   declareArray("approvalsTo", approvalsTo, opts.Checksum),
	}

	var buf bytes.Buffer
	if err := fixture.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render fixture: %w", err)
	}
	return buf.Bytes(), nil
}

// declareArray emits a public address[] declaration, bare when members is empty.
func declareArray(name string, members []string, checksum bool) string {
	if len(members) == 0 {
		return fmt.Sprintf("address[] public %s;", name)
	}
	if checksum {
		formatted := make([]string, 0, len(members))
		for _, member := range members {
			formatted = append(formatted, common.HexToAddress(member).Hex())
		}
		members = formatted
	}
	return fmt.Sprintf("address[] public %s = [%s];", name, strings.Join(members, ", "))
}
