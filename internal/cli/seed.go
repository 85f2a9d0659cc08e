package cli

import (
	"github.com/spf13/cobra"

	"github.com/jacentio/lattice/store"
)

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Print the built-in seed data as YAML",
		Long: `Print the built-in seed data. Save it, edit it, and pass it to
'lattice serve --seed-file' to start with your own records.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(store.DefaultSeedYAML())
			return err
		},
	}
}
