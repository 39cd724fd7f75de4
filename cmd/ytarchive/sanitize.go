package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vmunix/ytarchive/internal/objstore"
	"github.com/vmunix/ytarchive/internal/sanitize"
)

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize <path>...",
	Short: "Print the object keys paths would be uploaded as",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSanitize,
}

func init() {
	rootCmd.AddCommand(sanitizeCmd)
	sanitizeCmd.Flags().String("prefix", "", "Key prefix, e.g. lectures/2024")
}

func runSanitize(cmd *cobra.Command, args []string) error {
	prefix, _ := cmd.Flags().GetString("prefix")
	for _, p := range args {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", p, objstore.Join(prefix, sanitize.Path(p)))
	}
	return nil
}
