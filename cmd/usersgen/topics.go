package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"vaultUsers/internal/token"
)

func runTopics(cmd *cobra.Command, _ []string) error {
	sigs, err := token.Signatures()
	if err != nil {
		return err
	}

	names := make([]string, 0, len(sigs))
	for name := range sigs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", sigs[name], name)
	}
	return nil
}
