package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lists the athletes with at least one usable row.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd)
			ds, err := s.service.Dataset()
			if err != nil {
				return err
			}

			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"#", "Athlete", "Rows", "Dated games"})
			for i, name := range ds.Athletes() {
				p := ds.Project(name)
				dated := 0
				for _, r := range p.Records {
					if r.HasDate() {
						dated++
					}
				}
				t.AppendRow(table.Row{i + 1, name, len(p.Records), dated})
			}
			report := ds.Report()
			t.AppendFooter(table.Row{"", "Total", report.Filtered, ""})
			t.Render()
			return nil
		},
	}
}
