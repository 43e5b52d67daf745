package main

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/wikihop/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/wikihop.yaml
var configTemplate embed.FS

// errConfigExists is returned by init when the target file exists and
// --force was not given.
var errConfigExists = errors.New("configuration file already exists")

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented wikihop configuration file",
		Long: `Init writes a .wikihop file listing every setting with its default.

wikihop reads the file from the current directory, the home directory, or
the XDG config directory; flags given on the command line still win.

Examples:
  wikihop init
  wikihop init -o ~/.config/wikihop/config.yaml
  wikihop init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile, "Where to write the file")
	cmd.Flags().BoolP("force", "f", false, "Replace an existing file")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	path, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if err := writeConfigTemplate(path, force); err != nil {
		return err
	}
	printInitSummary(cmd.OutOrStdout(), path)
	return nil
}

// writeConfigTemplate copies the embedded template to path. Without force
// the file is created exclusively, so an existing file is never touched.
func writeConfigTemplate(path string, force bool) error {
	content, err := configTemplate.ReadFile("templates/wikihop.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flag, 0600)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%w: %s (use -f to overwrite)", errConfigExists, path)
	}
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// printInitSummary tells the user what the new file controls.
func printInitSummary(w io.Writer, path string) {
	fmt.Fprintf(w, "Created configuration file: %s\n\n", path)
	fmt.Fprintln(w, "Settings you will most likely want to change:")
	fmt.Fprintf(w, "  baseURL           article namespace (default %s)\n", config.DefaultBaseURL)
	fmt.Fprintln(w, "  userAgent         contact information sent to Wikimedia")
	fmt.Fprintf(w, "  backoffInterval   pause after a failed request (default %s)\n", config.DefaultBackoffInterval)
	fmt.Fprintf(w, "  maxInFlight       concurrent HTTP requests (default %d)\n", config.DefaultMaxInFlight)
	fmt.Fprintf(w, "  roundConcurrency  concurrent fetches per hop (default %d)\n", config.DefaultRoundConcurrency)
	fmt.Fprintf(w, "  format            report format: text, markdown or json (default %s)\n", config.DefaultFormat)
}
