package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the n43 CLI with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "n43",
		Short: "Inspect Norma 43 bank statement files",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newIBANCommand())

	return rootCmd
}
