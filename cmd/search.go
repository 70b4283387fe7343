package cmd

import (
	"fmt"

	"ffl-directory/feature/ffl/search"

	"github.com/spf13/cobra"
)

var (
	searchType  string
	searchLimit int
	searchState string
)

// searchCmd runs a directory search from the command line.
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the directory by license number or name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := search.ParseType(searchType)
		if err != nil {
			return err
		}

		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		results, err := rt.service.Search(cmd.Context(), args[0], search.Options{
			Type:  t,
			Limit: searchLimit,
			State: searchState,
		})
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		return printJSON(results)
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchType, "type", "both", "Search type: ffl, name or both")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum number of results (0 uses the configured default)")
	searchCmd.Flags().StringVar(&searchState, "state", "", "Restrict results to a state (code or name)")
	RootCmd.AddCommand(searchCmd)
}
