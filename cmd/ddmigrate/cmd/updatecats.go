package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/configkit/ddmigrate/internal/categories"
	"github.com/configkit/ddmigrate/internal/files"
	"github.com/configkit/ddmigrate/pkg/logging"
)

// NewUpdatecatsCommand creates the updatecats command.
func NewUpdatecatsCommand() *cobra.Command {
	var categorizedDir string

	cmd := &cobra.Command{
		Use:   "updatecats",
		Short: "Update attribute categories in converted files from categorized siblings",
		Long: `Update the category field of attributes in converted DD v2.1 files
from categorized attribute files (*_categorized_attributes.json).
Each categorized file maps attribute identifiers to category names and
patches the converted file of the same stem. Files without changes are
left untouched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if categorizedDir == "" {
				categorizedDir = filepath.Join(viper.GetString(keyClientDir), categories.DirName)
			}
			targetDir := viper.GetString(keyOutputDir)
			if targetDir == "" {
				targetDir = filepath.Join(viper.GetString(keyClientDir), files.OutputDirName)
			}

			pairs, err := categories.Discover(categorizedDir, targetDir)
			if err != nil {
				return err
			}
			if len(pairs) == 0 {
				fmt.Println("No categorized attribute files found")
				return nil
			}

			updated, alreadySet, notFound, processed := 0, 0, 0, 0
			for _, pair := range pairs {
				fmt.Printf("Processing: %s\n", filepath.Base(pair.CategorizedPath))
				if !pair.HasTarget() {
					fmt.Printf("  WARNING: no converted file %s; run convert first\n", pair.Name)
					continue
				}

				result, err := categories.UpdateFile(pair)
				if err != nil {
					logging.Error().Err(err).Str("file", pair.Name).Msg("Category update failed")
					continue
				}

				if len(result.Updated) > 0 {
					fmt.Printf("  Updated %d attribute(s) in %s\n", len(result.Updated), pair.Name)
				}
				if len(result.AlreadySet) > 0 {
					fmt.Printf("  %d attribute(s) already had the correct category\n", len(result.AlreadySet))
				}
				for _, id := range result.NotFound {
					fmt.Printf("  WARNING: attribute '%s' not found in %s\n", id, pair.Name)
				}

				updated += len(result.Updated)
				alreadySet += len(result.AlreadySet)
				notFound += len(result.NotFound)
				processed++
			}

			fmt.Printf("\n%s\n", strings.Repeat("=", 70))
			fmt.Println("UPDATE SUMMARY")
			fmt.Printf("%s\n", strings.Repeat("=", 70))
			fmt.Printf("  Processed files: %d\n", processed)
			fmt.Printf("  Attributes updated: %d\n", updated)
			fmt.Printf("  Attributes already set: %d\n", alreadySet)
			if notFound > 0 {
				fmt.Printf("  Attributes not found: %d\n", notFound)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&categorizedDir, "categorized-dir", "", "directory holding categorized files (default: <client-dir>/categorized)")

	return cmd
}
