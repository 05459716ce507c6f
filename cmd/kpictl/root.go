package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/CampaignKPI_GO/internal/app"
	"github.com/AngelCh415/CampaignKPI_GO/internal/config"
	"github.com/AngelCh415/CampaignKPI_GO/internal/kpi"
	"github.com/AngelCh415/CampaignKPI_GO/internal/models"
)

var (
	dataPath string
	verbose  bool
	filters  models.Filters
)

var rootCmd = &cobra.Command{
	Use:           "kpictl",
	Short:         "Campaign KPI queries from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var kpisCmd = &cobra.Command{
	Use:   "kpis",
	Short: "Compute the KPI bundle for a set of filters",
	Long: `Applies the filters to the campaign dataset and prints the KPI bundle as JSON.

Example:
  kpictl kpis --data campaigns.csv --channel Instagram --channel Facebook --segment Health`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeSrc, err := newService()
		if err != nil {
			return err
		}
		defer closeSrc()
		res, err := svc.Compute(cmd.Context(), filters)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the distinct values available for each filter",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeSrc, err := newService()
		if err != nil {
			return err
		}
		defer closeSrc()
		opts, err := svc.Options(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), opts)
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict [description]",
	Short: "Predict the outcome of a campaign description",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		pred, err := app.NewPredictor(cmd.Context(), cfg, logger())
		if err != nil {
			return err
		}
		out, err := pred.Predict(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), models.PredictResponse{Prediction: out})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "campaign CSV (overrides DATA_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")

	f := kpisCmd.Flags()
	f.StringSliceVar(&filters.Channel, "channel", nil, "allowed Channel_Used values")
	f.StringVar(&filters.Goal, "goal", "", "exact Campaign_Goal")
	f.StringSliceVar(&filters.Audience, "audience", nil, "allowed Target_Audience values")
	f.StringVar(&filters.Segment, "segment", "", "exact Customer_Segment")
	f.StringSliceVar(&filters.Quarter, "quarter", nil, "allowed Year_Quarter values, e.g. 2022Q1")
	f.StringSliceVar(&filters.Location, "location", nil, "allowed Location values")

	rootCmd.AddCommand(kpisCmd, optionsCmd, predictCmd)
}

func newService() (*kpi.Service, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if dataPath != "" {
		cfg.DataPath = dataPath
		cfg.DatabaseURL = ""
	}
	log := logger()
	src, closeSrc, err := app.NewSource(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return kpi.NewService(src, log), closeSrc, nil
}

func logger() *slog.Logger {
	lvl := slog.LevelWarn
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
