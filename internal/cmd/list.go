package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCount bool

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Print every record in stored order",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().BoolVar(&listCount, "count", false, "print only the number of records")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openSession("list")
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := lockContext(cmd)
	defer cancel()

	records, err := s.store.List(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if listCount {
		fmt.Fprintln(out, len(records))
		return nil
	}
	for _, r := range records {
		fmt.Fprintln(out, r.String())
	}
	return nil
}
