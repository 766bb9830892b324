package domain

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// EnrichWithReports fills in missing weather reports from source. Both ends
// are fetched together. A failed or empty lookup leaves that end without a
// report (graceful degradation) and records the outcome in the leg.
//
// When deriveDistance is set and the leg has no stage length, the distance
// between the two fetched stations is used instead.
func EnrichWithReports(ctx context.Context, leg FlightLeg, source ReportSource, deriveDistance bool, logger *slog.Logger) FlightLeg {
	if source == nil {
		return leg
	}

	var depFetched, arrFetched StationReport
	var g errgroup.Group

	if leg.DepReport == "" {
		g.Go(func() error {
			var err error
			depFetched, leg.DepReportSource, err = fetchReport(ctx, source, leg.Dep)
			leg.DepReport = depFetched.Raw
			return err
		})
	}
	if leg.ArrReport == "" {
		g.Go(func() error {
			var err error
			arrFetched, leg.ArrReportSource, err = fetchReport(ctx, source, leg.Arr)
			leg.ArrReport = arrFetched.Raw
			return err
		})
	}
	// Wait returns the first lookup failure; each end's origin already records its own outcome.
	if err := g.Wait(); err != nil {
		logger.Warn("report lookup failed",
			"flight", leg.FlightNo,
			"dep_report_source", leg.DepReportSource,
			"arr_report_source", leg.ArrReportSource,
			"error", err,
		)
	}

	if deriveDistance && leg.DistanceKm == nil && depFetched.HasPosition() && arrFetched.HasPosition() {
		d := GreatCircleKm(depFetched.Lat, depFetched.Lon, arrFetched.Lat, arrFetched.Lon)
		leg.DistanceKm = &d
		leg.DistanceSource = DistanceDerived
	}

	return leg
}

func fetchReport(ctx context.Context, source ReportSource, station string) (StationReport, ReportOrigin, error) {
	report, err := source.LatestReport(ctx, station)
	if err != nil {
		return StationReport{}, ReportFailed, fmt.Errorf("station %s: %w", station, err)
	}
	if report.Raw == "" {
		return report, ReportMissing, nil
	}
	return report, ReportFetched, nil
}
