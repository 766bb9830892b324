// Command brief evaluates a single flight leg from the command line and
// prints its weather brief and baseline delay risk.
//
// Usage:
//
//	brief --flight_no CA123 --dep ZBAA --arr ZSPD \
//	  --dep_time 2025-09-20T08:30:00 --arr_time 2025-09-20T10:45:00 \
//	  --dep_metar "ZBAA 200800Z 04005MPS 9999 FEW020 22/12 Q1015" \
//	  --arr_metar "ZSPD 200945Z 06010MPS 8000 RA BKN015 24/20 Q1009"
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/flight-brief/internal/adapter/awc"
	"github.com/couchcryptid/flight-brief/internal/config"
	"github.com/couchcryptid/flight-brief/internal/domain"
	"github.com/couchcryptid/flight-brief/internal/observability"
	"github.com/couchcryptid/flight-brief/internal/pipeline"
)

var requiredFlags = []string{"flight_no", "dep", "arr", "dep_time", "arr_time"}

type options struct {
	req        domain.LegRequest
	distanceKm float64
	fetch      bool
	hubsFile   string
	asJSON     bool
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "brief",
		Short: "Print the weather brief and baseline delay risk for one flight leg",
		Long: `Decodes the departure and arrival weather reports, scores the leg
against the schedule and hub rules, and prints a three-line brief.
Missing reports are fetched from the Aviation Weather Center with --fetch.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("distance_km") {
				d := opts.distanceKm
				opts.req.DistanceKm = &d
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.req.FlightNo, "flight_no", "", "flight number, e.g. CA123")
	f.StringVar(&opts.req.Dep, "dep", "", "departure ICAO code")
	f.StringVar(&opts.req.Arr, "arr", "", "arrival ICAO code")
	f.StringVar(&opts.req.DepTime, "dep_time", "", "ISO8601, e.g. 2025-09-20T08:30:00")
	f.StringVar(&opts.req.ArrTime, "arr_time", "", "ISO8601")
	f.StringVar(&opts.req.DepMETAR, "dep_metar", "", "departure METAR text")
	f.StringVar(&opts.req.ArrMETAR, "arr_metar", "", "arrival METAR text")
	f.Float64Var(&opts.distanceKm, "distance_km", 0, "optional stage length in km")
	f.BoolVar(&opts.fetch, "fetch", false, "fetch missing reports from the Aviation Weather Center")
	f.StringVar(&opts.hubsFile, "hubs-file", "", "YAML file listing hub airports")
	f.BoolVar(&opts.asJSON, "json", false, "print the full brief as JSON")

	for _, name := range requiredFlags {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func run(ctx context.Context, out, errOut io.Writer, opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.hubsFile != "" {
		hubs, err := config.LoadHubs(opts.hubsFile, "")
		if err != nil {
			return err
		}
		cfg.Hubs = hubs
	}

	logger := observability.NewLoggerTo(errOut, cfg)

	var source domain.ReportSource
	if opts.fetch {
		metrics := observability.NewUnregisteredMetrics()
		client := awc.NewClient(cfg.ReportBaseURL, cfg.ReportTimeout, metrics, logger)
		source = awc.NewCachedSource(client, cfg.ReportCacheSize, cfg.ReportCacheTTL, metrics)
	}

	transformer := pipeline.NewTransformer(domain.NewScorer(cfg.Hubs), source, cfg.DeriveStageDistance, logger)
	brief, err := transformer.Evaluate(ctx, opts.req)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(brief)
	}
	return render(out, brief)
}

func render(w io.Writer, b domain.Brief) error {
	_, err := fmt.Fprintf(w,
		"[BRIEF] %s %s → %s (%s → %s)\n"+
			"[WEATHER] DEP(%s), ARR(%s)\n"+
			"[BASELINE DELAY RISK] %s  (%s)\n",
		b.FlightNo, b.Dep, b.Arr, b.DepTime, b.ArrTime,
		b.DepConditions.Summary(), b.ArrConditions.Summary(),
		formatScore(b.Risk.Value), b.Risk.Band,
	)
	return err
}

// formatScore prints the shortest decimal form, keeping one fractional digit
// for whole numbers ("0.0", "1.0").
func formatScore(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
