package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <name> <phone>",
	Short: "Append a record",
	Long: `Append a name/phone record.

Duplicates are allowed. An earlier record with the same name keeps
answering lookups until it is removed. Neither field may contain the
" - " delimiter or a line break.`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	s, err := openSession("add")
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := lockContext(cmd)
	defer cancel()

	name, phone := args[0], args[1]
	if err := s.store.Insert(ctx, name, phone); err != nil {
		return err
	}
	s.logger.Info("record added", "name", name, "phone", phone, "path", s.path)
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s - %s\n", name, phone)
	return nil
}
