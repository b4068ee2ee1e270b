package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/configkit/ddmigrate/internal/files"
	"github.com/configkit/ddmigrate/pkg/errors"
	"github.com/configkit/ddmigrate/pkg/logging"
	"github.com/configkit/ddmigrate/pkg/reconcile"
)

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	var (
		all     bool
		file    string
		yes     bool
		keepAll bool
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert client dictionaries to DD v2.1",
		Long: `Convert client data dictionaries to the DD v2.1 schema.

Each converted file is written to the output directory together with an
audit log of every removal, sanitization, classification, and decision.
Without --all or --file an interactive menu is shown.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if yes && keepAll {
				return errors.NewConfigError("convert", "--yes and --keep-all are mutually exclusive", nil)
			}

			pairs, err := discoverPairs()
			if err != nil {
				return err
			}
			if len(pairs) == 0 {
				fmt.Println("No data dictionary files found in the client directory")
				return nil
			}

			decider := buildDecider(yes, keepAll)
			ctx := cmd.Context()

			switch {
			case all:
				return convertAll(ctx, pairs, decider)
			case file != "":
				for _, pair := range pairs {
					if pair.Name == file {
						return convertOne(ctx, pair, decider, 1, 1)
					}
				}
				return errors.NewNotFoundError("client file", file)
			default:
				return runMenu(ctx, pairs, decider)
			}
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "process every discovered file without the menu")
	cmd.Flags().StringVar(&file, "file", "", "process a single file by name")
	cmd.Flags().BoolVar(&yes, "yes", false, "non-interactive: remove every classified attribute")
	cmd.Flags().BoolVar(&keepAll, "keep-all", false, "non-interactive: keep every classified attribute")

	return cmd
}

func discoverPairs() ([]files.Pair, error) {
	return files.Discover(
		viper.GetString(keyClientDir),
		viper.GetString(keyProductDir),
		viper.GetString(keyOutputDir),
		viper.GetString(keyPattern),
	)
}

// buildDecider picks the decision provider: a fixed policy for the
// non-interactive flags, the terminal prompt otherwise.
func buildDecider(yes, keepAll bool) reconcile.Decider {
	switch {
	case yes:
		return reconcile.PolicyDecider{Decision: reconcile.Remove}
	case keepAll:
		return reconcile.PolicyDecider{Decision: reconcile.Keep}
	default:
		return newPromptDecider(os.Stdin, os.Stdout)
	}
}

// convertAll processes every pair in sequence. Each document is fully
// independent: a malformed document or a cancellation affects only the
// file it happened in.
func convertAll(ctx context.Context, pairs []files.Pair, decider reconcile.Decider) error {
	processed, failed := 0, 0
	for i, pair := range pairs {
		if err := convertOne(ctx, pair, decider, i+1, len(pairs)); err != nil {
			logging.Error().Err(err).Str("file", pair.Name).Msg("Conversion failed")
			failed++
			continue
		}
		processed++
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 70))
	fmt.Println("CONVERSION SUMMARY")
	fmt.Printf("%s\n", strings.Repeat("=", 70))
	fmt.Printf("  Successfully processed: %d file(s)\n", processed)
	if failed > 0 {
		fmt.Printf("  Failed/Skipped: %d file(s)\n", failed)
	}
	return nil
}

// convertOne runs the engine over a single pair and writes the output
// document plus its audit log.
func convertOne(ctx context.Context, pair files.Pair, decider reconcile.Decider, num, total int) error {
	fmt.Printf("\n%s\n", strings.Repeat("=", 70))
	fmt.Printf("[%d/%d] Processing: %s\n", num, total, pair.Name)
	fmt.Printf("%s\n", strings.Repeat("=", 70))

	client, product, err := files.LoadPair(pair)
	if err != nil {
		return err
	}
	if product == nil {
		fmt.Println("  WARNING: no matching product file found, skipping common key removal")
	}

	engine, err := reconcile.New(reconcile.WithDecider(decider))
	if err != nil {
		return err
	}

	result, err := engine.Run(ctx, client, product)
	if err != nil {
		return err
	}
	if result.Canceled {
		fmt.Println("  Canceled; undecided attributes were kept")
	}

	if err := files.Write(pair.OutputPath, result.Document); err != nil {
		return err
	}
	if err := files.WriteAudit(pair.AuditPath, pair.Name, result.Log); err != nil {
		return err
	}

	fmt.Printf("  Removed %d common key(s), %d attribute(s); kept %d attribute(s)\n",
		result.Stats.KeysRemoved, result.Stats.AttributesRemoved, result.Stats.AttributesKept)
	fmt.Printf("  Saved: %s\n", pair.OutputPath)
	return nil
}

// runMenu drives the interactive menu: process all files, pick one, or
// exit. The menu shares the interactive decider's reader; a second
// buffered reader on the same stream would swallow input the engine's
// prompts need.
func runMenu(ctx context.Context, pairs []files.Pair, decider reconcile.Decider) error {
	prompt, ok := decider.(*promptDecider)
	if !ok {
		prompt = newPromptDecider(os.Stdin, os.Stdout)
	}
	for {
		fmt.Printf("\n%s\n", strings.Repeat("=", 70))
		fmt.Println("CONVERSION MENU")
		fmt.Printf("%s\n", strings.Repeat("=", 70))
		fmt.Println("1. Process all files")
		fmt.Println("2. Process one file (select from list)")
		fmt.Println("3. Exit")

		choice, err := prompt.ask(ctx, "\nEnter your choice (1-3): ")
		if err != nil {
			if errors.IsCanceled(err) {
				return nil
			}
			return err
		}

		switch choice {
		case "1":
			if err := convertAll(ctx, pairs, decider); err != nil {
				return err
			}
		case "2":
			if err := menuSelectFile(ctx, prompt, pairs, decider); err != nil {
				return err
			}
		case "3":
			return nil
		default:
			fmt.Println("Invalid choice. Please enter 1, 2, or 3.")
		}
	}
}

func menuSelectFile(ctx context.Context, prompt *promptDecider, pairs []files.Pair, decider reconcile.Decider) error {
	fmt.Printf("\n%s\n", strings.Repeat("=", 70))
	fmt.Println("AVAILABLE FILES")
	fmt.Printf("%s\n", strings.Repeat("=", 70))
	for i, pair := range pairs {
		fmt.Printf("%d. %s\n", i+1, pair.Name)
	}
	fmt.Printf("%d. Back to main menu\n", len(pairs)+1)

	for {
		choice, err := prompt.ask(ctx, fmt.Sprintf("\nSelect a file (1-%d): ", len(pairs)+1))
		if err != nil {
			if errors.IsCanceled(err) {
				return nil
			}
			return err
		}

		var idx int
		if _, err := fmt.Sscanf(choice, "%d", &idx); err != nil || idx < 1 || idx > len(pairs)+1 {
			fmt.Println("Invalid input. Please enter a number from the list.")
			continue
		}
		if idx == len(pairs)+1 {
			return nil
		}
		return convertOne(ctx, pairs[idx-1], decider, 1, 1)
	}
}
