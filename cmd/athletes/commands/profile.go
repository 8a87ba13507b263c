package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"athletepulse/internal/services"
	"athletepulse/pkg/contracts/domain"
)

func newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile <name>",
		Short: "Shows an athlete's profile, physical condition, recent games and satisfaction.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd)
			view, err := s.service.OnAthleteSelected(cmd.Context(), services.SourceCLI, athleteArg(args))
			if err != nil {
				return explain(err)
			}
			renderView(cmd, view)
			return nil
		},
	}
}

func renderView(cmd *cobra.Command, view domain.AthleteView) {
	out := cmd.OutOrStdout()

	profile := newTable(out)
	profile.SetTitle(view.Athlete)
	profile.AppendRows([]table.Row{
		{"Age", show(view.Profile.Age)},
		{"Height (cm)", show(view.Profile.Height)},
		{"Weight (kg)", show(view.Profile.Weight)},
		{"Foot", show(view.Profile.Foot.Value)},
		{"Position", show(view.Profile.Position.Value)},
	})
	profile.Render()

	physical := newTable(out)
	physical.SetTitle("Physical Condition")
	physical.AppendHeader(table.Row{"Metric", "Mean", "Values"})
	for _, m := range domain.PhysicalMetrics {
		mean := view.PhysicalCondition[m]
		physical.AppendRow(table.Row{string(m), showMean(mean), mean.Count})
	}
	physical.Render()

	if !view.HasGameData {
		fmt.Fprintln(out, "No game data recorded.")
		return
	}

	games := newTable(out)
	games.SetTitle("Recent Games")
	games.AppendHeader(table.Row{"Date", "Minutes", "Result", "Goals", "Assists", "Fouls", "Fouled"})
	for _, g := range view.RecentGames {
		games.AppendRow(table.Row{
			show(g.Date.Value), show(g.MinutesPlayed), show(g.Result.Value), show(g.Goals),
			show(g.Assists), show(g.FoulsCommitted), show(g.FoulsReceived),
		})
	}
	games.Render()

	if view.Satisfaction.NoData {
		fmt.Fprintln(out, "Satisfaction: no data")
		return
	}
	fmt.Fprintf(out, "Overall satisfaction: %s\nPhysical satisfaction: %s\n",
		showScore(view.Satisfaction.Overall), showScore(view.Satisfaction.Physical))
}
