package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"athletepulse/internal/app"
	"athletepulse/internal/config"
	"athletepulse/internal/infrastructure"
	"athletepulse/internal/services"
)

type rootFlags struct {
	configPath string
	global     string
	physical   string
	afterGame  string
	dataDir    string
	verbose    bool
}

// session is what every subcommand works with once the dataset is loaded
type session struct {
	cfg     *config.Config
	paths   *config.Paths
	service *services.DashboardService
	logger  *slog.Logger
}

type sessionKey struct{}

// NewRootCmd builds the athletes command tree
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "athletes",
		Short:         "athletes queries the athlete dashboard from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			s, err := openSession(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), sessionKey{}, s))
			return nil
		},
	}
	rootCmd.SetContext(context.Background())

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "path to a YAML config file")
	pf.StringVar(&flags.global, "global", "", "path to the global data workbook")
	pf.StringVar(&flags.physical, "physical", "", "path to the physical data workbook")
	pf.StringVar(&flags.afterGame, "after-game", "", "path to the after game data workbook")
	pf.StringVar(&flags.dataDir, "data-dir", "", "directory the workbooks are discovered in")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log pipeline details to stderr")

	rootCmd.AddCommand(
		newListCmd(),
		newProfileCmd(),
		newInsightsCmd(),
		newExportCmd(),
	)
	return rootCmd
}

func openSession(ctx context.Context, flags *rootFlags, stderr io.Writer) (*session, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	cfg.Sources.Kind = config.SourceExcel
	if flags.dataDir != "" {
		cfg.Paths.DataDir = flags.dataDir
	}
	if flags.global != "" {
		cfg.Sources.GlobalPath = flags.global
	}
	if flags.physical != "" {
		cfg.Sources.PhysicalPath = flags.physical
	}
	if flags.afterGame != "" {
		cfg.Sources.AfterGamePath = flags.afterGame
	}

	logging := cfg.Logging
	logging.Level = "warn"
	if flags.verbose {
		logging.Level = "debug"
	}
	logger := infrastructure.NewLogger(logging, stderr)

	paths, err := config.ResolvePaths(cfg.Paths, "")
	if err != nil {
		return nil, err
	}
	loader, err := app.NewTableLoader(cfg, paths, logger)
	if err != nil {
		return nil, err
	}

	svc := services.NewDashboardService(loader, services.DashboardOptionsFromConfig(cfg.Dashboard), nil, infrastructure.NoopMetrics(), logger)
	if _, err := svc.Reload(ctx); err != nil {
		return nil, err
	}
	return &session{cfg: cfg, paths: paths, service: svc, logger: logger}, nil
}

func sessionFrom(cmd *cobra.Command) *session {
	return cmd.Context().Value(sessionKey{}).(*session)
}

// athleteArg joins positional arguments so unquoted names work
func athleteArg(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// explain adds the closest names to a not found error
func explain(err error) error {
	var notFound *services.AthleteNotFoundError
	if errors.As(err, &notFound) && len(notFound.Suggestions) > 0 {
		return fmt.Errorf("%w (did you mean: %s?)", err, strings.Join(notFound.Suggestions, ", "))
	}
	return err
}

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}
