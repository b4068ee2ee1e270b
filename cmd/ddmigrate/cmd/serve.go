package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/configkit/ddmigrate/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only diff viewer",
		Long: `Serve a read-only web view of the comparison data: discovered
client/product pairs, common top-level keys, and per-attribute
classifications with their differences. Nothing is ever written.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := server.New(
				viper.GetString(keyClientDir),
				viper.GetString(keyProductDir),
				viper.GetString(keyPattern),
			)
			return s.ListenAndServe(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8571", "listen address")

	return cmd
}
