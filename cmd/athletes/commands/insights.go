package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newInsightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights <name>",
		Short: "Prints the insights for an athlete in rule order.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd)
			report, err := s.service.OnInsightsRequested(cmd.Context(), athleteArg(args))
			if err != nil {
				return explain(err)
			}

			t := newTable(cmd.OutOrStdout())
			t.SetTitle(report.Athlete)
			t.AppendHeader(table.Row{"Kind", "Insight"})
			for _, in := range report.Insights {
				t.AppendRow(table.Row{string(in.Kind), in.Message})
			}
			t.Render()
			return nil
		},
	}
}
