package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// lookupCmd fetches a single licensee.
var lookupCmd = &cobra.Command{
	Use:   "lookup <license>",
	Short: "Look up one licensee by license number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		rec, err := rt.service.GetByLicense(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("lookup failed: %w", err)
		}
		return printJSON(rec)
	},
}

func init() {
	RootCmd.AddCommand(lookupCmd)
}
