package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tourcab/catalog"
	"tourcab/trip"
)

func suggestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "suggest <text>",
		Short:   "print destination suggestions for some text",
		Example: `tourcab suggest "beach and wildlife" --limit 8`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			if limit <= 0 {
				return fmt.Errorf("limit must be positive, got %d", limit)
			}
			m := trip.NewMatcher(catalog.Reference(), trip.WithLimit(limit))
			list := m.Suggest(strings.Join(args, " "))

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "no suggestions")
				return nil
			}
			for _, d := range list {
				fmt.Fprintf(out, "%-32s %-10s %s\n", d.Name, d.Category.Label(), d.Description)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", trip.DefaultSuggestionLimit, "maximum number of suggestions")
	return cmd
}
