package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/configkit/ddmigrate/internal/files"
	"github.com/configkit/ddmigrate/pkg/differ"
	"github.com/configkit/ddmigrate/pkg/errors"
)

// NewCompareCommand creates the compare command.
func NewCompareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare [file]",
		Short: "Show the classification report for a pair without converting",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := discoverPairs()
			if err != nil {
				return err
			}
			if len(pairs) == 0 {
				fmt.Println("No data dictionary files found in the client directory")
				return nil
			}

			if len(args) == 1 {
				for _, pair := range pairs {
					if pair.Name == args[0] {
						return printCompare(pair)
					}
				}
				return errors.NewNotFoundError("client file", args[0])
			}

			for _, pair := range pairs {
				if err := printCompare(pair); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func printCompare(pair files.Pair) error {
	client, product, err := files.LoadPair(pair)
	if err != nil {
		return err
	}

	d := differ.New()
	report := d.Report(client, product)

	headerColor.Printf("\n%s\n", pair.Name)
	if !pair.HasProduct() {
		fmt.Println("  No product file; nothing to compare")
		return nil
	}

	fmt.Printf("  %s\n", report)
	if len(report.CommonKeys) > 0 {
		fmt.Printf("  Common top-level keys: %v\n", report.CommonKeys)
	}
	for _, attr := range report.Exact() {
		exactColor.Printf("  = %s\n", attr.ID)
	}
	for _, attr := range report.Different() {
		diffColor.Printf("  ~ %s (%d difference(s))\n", attr.ID, len(attr.Changes))
		for _, change := range attr.Changes {
			fmt.Printf("      %s\n", change)
		}
	}
	return nil
}
