package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <name>",
	Short: "Print the phone of the first record with the given name",
	Long: `Print the phone of the first record with the given name.

Exits non-zero if no record matches.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

var reverseCmd = &cobra.Command{
	Use:   "reverse <phone>",
	Short: "Print the name of the first record with the given phone",
	Args:  cobra.ExactArgs(1),
	RunE:  runReverse,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(reverseCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	s, err := openSession("lookup")
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := lockContext(cmd)
	defer cancel()

	phone, err := s.store.LookupByName(ctx, args[0])
	if err != nil {
		return err
	}
	s.logger.Debug("lookup by name", "name", args[0], "phone", phone)
	fmt.Fprintln(cmd.OutOrStdout(), phone)
	return nil
}

func runReverse(cmd *cobra.Command, args []string) error {
	s, err := openSession("reverse")
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := lockContext(cmd)
	defer cancel()

	name, err := s.store.LookupByPhone(ctx, args[0])
	if err != nil {
		return err
	}
	s.logger.Debug("lookup by phone", "phone", args[0], "name", name)
	fmt.Fprintln(cmd.OutOrStdout(), name)
	return nil
}
