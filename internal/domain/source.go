package domain

import (
	"context"
	"time"
)

// StationReport is the latest surface report published for one station.
type StationReport struct {
	Station    string
	Raw        string
	ObservedAt time.Time
	Lat        float64
	Lon        float64
}

// HasPosition reports whether the provider returned station coordinates.
func (r StationReport) HasPosition() bool {
	return r.Lat != 0 || r.Lon != 0
}

// ReportSource looks up current weather reports for stations.
type ReportSource interface {
	// LatestReport returns the most recent report for station. An empty
	// StationReport with a nil error means the provider has nothing for it.
	LatestReport(ctx context.Context, station string) (StationReport, error)
}
