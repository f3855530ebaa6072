// Package cli implements csvcheck, which validates and normalizes strings
// and classifications CSV files without running the server.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/JonMunkholm/csvmanager/internal/core"
	"github.com/JonMunkholm/csvmanager/internal/logging"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

// ErrInvalidRows is returned when strings rows fail validation. The report
// has already been printed, so callers only set the exit status.
var ErrInvalidRows = errors.New("strings rows failed validation")

// NewRootCmd creates the csvcheck command tree.
func NewRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "csvcheck",
		Short: "Validate strings CSV files against a classifications catalog",
		Long: `csvcheck runs the same parsing and cross-dataset validation as the
server on local files. Every strings row's Topic, Subtopic and Industry must
match a classifications row (case and surrounding whitespace ignored).`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), logLevel, "text"))
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		newValidateCmd(),
		newIndexCmd(),
		newNormalizeCmd(),
	)
	return root
}

func loadStrings(path string) ([]core.StringsRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read strings file: %w", err)
	}
	t, err := core.DecodeBytes(data, core.SchemaStrings)
	if err != nil {
		return nil, err
	}
	return core.ParseStringsTable(t)
}

func loadClassifications(path string) ([]core.ClassificationsRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read classifications file: %w", err)
	}
	t, err := core.DecodeBytes(data, core.SchemaClassifications)
	if err != nil {
		return nil, err
	}
	return core.ParseClassificationsTable(t)
}
