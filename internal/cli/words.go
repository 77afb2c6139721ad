package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lcastelli/motdepasse-server/internal/dependencies/random"
	"github.com/lcastelli/motdepasse-server/internal/services/wordbank"
	"github.com/lcastelli/motdepasse-server/internal/storage/memory"
)

func newWordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Word bank utilities",
	}
	cmd.AddCommand(newWordsCheckCmd())
	return cmd
}

// newWordsCheckCmd validates a word bank file without starting the
// server, so a bad file is caught before deployment
func newWordsCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a word bank file (or the embedded bank)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bank := wordbank.New(memory.New(), random.New())

			ctx := context.Background()
			var err error
			if len(args) == 1 {
				err = bank.LoadFromFile(ctx, args[0])
			} else {
				err = bank.LoadDefaults(ctx)
			}
			if err != nil {
				return err
			}

			categories := bank.Categories()
			cmd.Printf("ok: %d words in %d categories\n", bank.WordCount(), len(categories))
			for _, c := range categories {
				cmd.Printf("  %s\n", c)
			}
			if len(categories) < 2 {
				return fmt.Errorf("need at least 2 categories, got %d", len(categories))
			}
			return nil
		},
	}
}
