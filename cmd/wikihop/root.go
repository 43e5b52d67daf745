package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	// errMissingArguments is returned when the article or hop count is missing.
	errMissingArguments = errors.New("too few arguments given")

	// errInvalidHopCount is returned when the hop count is not a positive integer.
	errInvalidHopCount = errors.New("not a valid hop count: must be a positive integer")
)

// NewRootCmd creates the root command for wikihop.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wikihop <article> <hops>",
		Short: "List the Wikipedia articles within N link hops of an article",
		Long: `wikihop fetches a Wikipedia article, follows every link in its body, and
repeats for each newly found article until the requested number of hops is
reached. Articles are grouped by their hop distance; an article appears only
at the smallest distance at which it was found. Redirects are resolved and
listed separately.

The result is written to "<Title>.txt" (or .md/.json with --format).

Examples:
  # Articles one and two hops away from "Go (programming language)"
  wikihop "Go (programming language)" 2

  # Full article URLs are accepted
  wikihop https://en.wikipedia.org/wiki/Graph_theory 1

  # Markdown report in ./reports
  wikihop --format markdown --output-dir reports Hop 2`,
		Version:       getVersion(),
		Args:          validateRunArgs,
		RunE:          runRootCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .wikihop in current or home directory, then XDG config)")

	addRunFlags(cmd)

	cmd.AddCommand(NewRandomCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// validateRunArgs checks the <article> <hops> arguments.
func validateRunArgs(_ *cobra.Command, args []string) error {
	if len(args) < 2 {
		return errMissingArguments
	}
	if len(args) > 2 {
		return fmt.Errorf("expected <article> <hops>, got %d arguments", len(args))
	}
	_, err := parseHops(args[1])
	return err
}

// parseHops converts a hop count argument.
func parseHops(arg string) (int, error) {
	hops, err := strconv.Atoi(arg)
	if err != nil || hops <= 0 {
		return 0, fmt.Errorf("'%s' %w", arg, errInvalidHopCount)
	}
	return hops, nil
}

func runRootCmd(cmd *cobra.Command, args []string) error {
	hops, err := parseHops(args[1])
	if err != nil {
		return err
	}
	return runHops(cmd, args[0], false, hops)
}
