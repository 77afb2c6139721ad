package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "motdepasse-server",
		Short: "Real-time word game server",
		Long: `motdepasse-server runs the authoritative game server for the
Mot de Passe party word game.

Players connect over websockets, create or join rooms with short
shareable codes, and play timed clue-and-guess rounds in teams.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newWordsCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
