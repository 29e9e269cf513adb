package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Delete every record with the given name",
	Long: `Delete every record with the given name.

Removing a name that is not present is not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	s, err := openSession("remove")
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := lockContext(cmd)
	defer cancel()

	removed, err := s.store.Remove(ctx, args[0])
	if err != nil {
		return err
	}
	s.logger.Info("records removed", "name", args[0], "count", removed, "path", s.path)
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d record(s) for %s\n", removed, args[0])
	return nil
}
