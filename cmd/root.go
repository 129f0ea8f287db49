// Package cmd implements the newscheck command-line interface.
package cmd

import (
	"context"
	"fmt"

	"github.com/jonesrussell/newscheck/cmd/analyze"
	"github.com/jonesrussell/newscheck/cmd/common"
	"github.com/jonesrussell/newscheck/cmd/samples"
	"github.com/jonesrussell/newscheck/cmd/serve"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X github.com/jonesrussell/newscheck/cmd.Version=...".
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "newscheck",
	Short: "Fake news detection service and CLI",
	Long: `newscheck classifies article text as FAKE or REAL, highlights suspicious
passages and serves the same analysis over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().String(common.FlagConfig, "", "config file (default is $CONFIG_PATH or ./config.yml)")
	rootCmd.PersistentFlags().Bool(common.FlagDebug, false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "newscheck version %s\n", Version)
		},
	})

	rootCmd.AddCommand(serve.Command())
	rootCmd.AddCommand(analyze.Command())
	rootCmd.AddCommand(samples.Command())
}
