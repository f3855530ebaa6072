package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/JonMunkholm/csvmanager/internal/core"
	"github.com/spf13/cobra"
)

func newNormalizeCmd() *cobra.Command {
	var (
		stringsPath         string
		classificationsPath string
		outDir              string
		force               bool
	)

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Rewrite both files with canonical headers and trimmed values",
		Long: `normalize reads both files (accepting any supported header spelling),
validates the strings rows and writes strings-<date>.csv and
classifications-<date>.csv to the output directory with canonical headers.
The strings file is only written when every row is valid, unless --force.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stringsRows, err := loadStrings(stringsPath)
			if err != nil {
				return err
			}
			classifications, err := loadClassifications(classificationsPath)
			if err != nil {
				return err
			}

			result := core.Validate(stringsRows, classifications)
			if !result.IsValid() && !force {
				if err := renderValidation(cmd.ErrOrStderr(), result, formatTable); err != nil {
					return err
				}
				return ErrInvalidRows
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			now := time.Now()
			stringsCSV, err := core.EncodeStrings(stringsRows)
			if err != nil {
				return err
			}
			classificationsCSV, err := core.EncodeClassifications(classifications)
			if err != nil {
				return err
			}

			for _, f := range []struct {
				name string
				body []byte
			}{
				{core.ExportFilename(core.SchemaStrings, now), stringsCSV},
				{core.ExportFilename(core.SchemaClassifications, now), classificationsCSV},
			} {
				path := filepath.Join(outDir, f.name)
				if err := os.WriteFile(path, f.body, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", f.name, err)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&stringsPath, "strings", "s", "", "strings CSV file")
	cmd.Flags().StringVarP(&classificationsPath, "classifications", "c", "", "classifications CSV file")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().BoolVar(&force, "force", false, "write the strings file even when rows are invalid")
	_ = cmd.MarkFlagRequired("strings")
	_ = cmd.MarkFlagRequired("classifications")
	return cmd
}
