package main

import (
	"github.com/spf13/cobra"
)

// NewRandomCmd creates the random command.
func NewRandomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "random <hops>",
		Short: "Start from a random article",
		Long: `Random asks Wikipedia for a random article and computes its neighbors
exactly like the root command does.

Examples:
  wikihop random 2`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errMissingArguments
			}
			_, err := parseHops(args[0])
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			hops, err := parseHops(args[0])
			if err != nil {
				return err
			}
			return runHops(cmd, "", true, hops)
		},
	}

	addRunFlags(cmd)
	return cmd
}
