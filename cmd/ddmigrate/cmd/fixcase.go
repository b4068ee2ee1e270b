package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/configkit/ddmigrate/internal/casing"
	"github.com/configkit/ddmigrate/internal/files"
	"github.com/configkit/ddmigrate/pkg/logging"
)

// NewFixcaseCommand creates the fixcase command.
func NewFixcaseCommand() *cobra.Command {
	var (
		useAI bool
		model string
	)

	cmd := &cobra.Command{
		Use:   "fixcase",
		Short: "Normalize attribute caption and description casing in converted files",
		Long: `Normalize attribute captions and descriptions in converted DD v2.1
files: captions are title-cased and descriptions are terminated with a
period. With --ai the rewriting is done by Gemini (GEMINI_API_KEY),
falling back to the heuristic rules when a call fails.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logging.WithOperation(cmd.Context(), "fixcase")

			var fixer casing.Fixer
			if useAI {
				gemini, err := casing.NewGeminiFixer(ctx, os.Getenv("GEMINI_API_KEY"), model)
				if err != nil {
					return err
				}
				fixer = gemini
			} else {
				fixer = casing.NewHeuristicFixer()
			}

			outputDir := viper.GetString(keyOutputDir)
			if outputDir == "" {
				outputDir = filepath.Join(viper.GetString(keyClientDir), files.OutputDirName)
			}
			pattern := viper.GetString(keyPattern)
			if pattern == "" {
				pattern = files.DefaultPattern
			}

			matches, err := filepath.Glob(filepath.Join(outputDir, pattern))
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				fmt.Println("No converted files found; run convert first")
				return nil
			}

			for _, path := range matches {
				doc, err := files.Load(path)
				if err != nil {
					logging.Error().Err(err).Str("file", path).Msg("Skipping file")
					continue
				}
				fileCtx := logging.WithDocument(ctx, filepath.Base(path))
				modified, err := casing.FixDocument(fileCtx, fixer, doc)
				if err != nil {
					return err
				}
				if len(modified) == 0 {
					fmt.Printf("  %s: nothing to fix\n", filepath.Base(path))
					continue
				}
				if err := files.Write(path, doc); err != nil {
					return err
				}
				fmt.Printf("  %s: fixed %d attribute(s)\n", filepath.Base(path), len(modified))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&useAI, "ai", false, "use Gemini for casing fixes")
	cmd.Flags().StringVar(&model, "model", casing.DefaultGeminiModel, "Gemini model for --ai")

	return cmd
}
