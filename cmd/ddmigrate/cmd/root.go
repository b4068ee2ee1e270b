// Package cmd implements the ddmigrate command tree.
package cmd

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/configkit/ddmigrate/pkg/logging"
)

// Configuration keys, overridable via flags or DDMIGRATE_* environment
// variables.
const (
	keyClientDir  = "client-dir"
	keyProductDir = "product-dir"
	keyOutputDir  = "output-dir"
	keyPattern    = "pattern"
	keyLogLevel   = "log-level"
)

// NewRootCommand builds the ddmigrate root command.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:     "ddmigrate",
		Short:   "Migrate client data dictionaries to the DD v2.1 schema",
		Version: version,
		Long: `ddmigrate converts client data dictionary documents to the reduced
DD v2.1 schema by diffing each document against its product sibling,
stripping redundant top-level keys and dashboard-specific content, and
asking for confirmation before removing attributes the product already
carries.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if level, err := zerolog.ParseLevel(viper.GetString(keyLogLevel)); err == nil {
				logging.SetLevel(level)
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String(keyClientDir, "Client", "directory holding client data dictionaries")
	flags.String(keyProductDir, "Product", "directory holding product data dictionaries")
	flags.String(keyOutputDir, "", "output directory (default: <client-dir>/DD v2.1)")
	flags.String(keyPattern, "", "glob pattern for client files (default: *__data_dictionary.json)")
	flags.String(keyLogLevel, "info", "log level (trace, debug, info, warn, error)")

	viper.SetEnvPrefix("DDMIGRATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, key := range []string{keyClientDir, keyProductDir, keyOutputDir, keyPattern, keyLogLevel} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}

	root.AddCommand(NewConvertCommand())
	root.AddCommand(NewCompareCommand())
	root.AddCommand(NewFixcaseCommand())
	root.AddCommand(NewUpdatecatsCommand())
	root.AddCommand(NewServeCommand())

	return root
}
