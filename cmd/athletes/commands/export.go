package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"athletepulse/internal/exporter"
	"athletepulse/internal/services"
)

func newExportCmd() *cobra.Command {
	var (
		outDir  string
		athlete string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Writes the filtered dataset, and optionally one athlete's files, to a directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd)
			if outDir == "" {
				outDir = s.paths.ExportDir
			}
			exp := exporter.NewExporter(outDir, s.logger)

			ds, err := s.service.Dataset()
			if err != nil {
				return err
			}
			written := []string{}
			path, err := exp.SaveFilteredCSV(ds)
			if err != nil {
				return err
			}
			written = append(written, path)

			if athlete != "" {
				view, err := s.service.OnAthleteSelected(cmd.Context(), services.SourceCLI, athlete)
				if err != nil {
					return explain(err)
				}
				report, err := s.service.OnInsightsRequested(cmd.Context(), athlete)
				if err != nil {
					return explain(err)
				}
				paths, err := exp.SaveAthleteCSV(view)
				if err != nil {
					return err
				}
				written = append(written, paths...)
				path, err := exp.SaveAthleteReport(view, report)
				if err != nil {
					return err
				}
				written = append(written, path)
			}

			for _, p := range written {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (defaults to the configured export directory)")
	cmd.Flags().StringVar(&athlete, "athlete", "", "also export this athlete's recent games, monthly means and report")
	return cmd
}
