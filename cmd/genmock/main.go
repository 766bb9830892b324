// Command genmock reads a flight schedule CSV and generates the leg request
// fixture used by the test suites, plus the evaluated briefs on request.
// Legs are evaluated with the pipeline transformer, without report fetching,
// against a frozen clock.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -csv data/mock/schedule.csv \
//	  -legs-out data/mock/legs.json \
//	  -briefs-out /tmp/briefs.json
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/flight-brief/internal/domain"
	"github.com/couchcryptid/flight-brief/internal/pipeline"
)

// evaluatedAt is the fixed clock reading stamped on every generated brief.
var evaluatedAt = time.Date(2025, time.September, 20, 6, 0, 0, 0, time.UTC)

var requiredCols = []string{"flight_no", "dep", "arr", "dep_time", "arr_time"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvPath := flag.String("csv", "", "schedule CSV with one leg per row")
	legsOut := flag.String("legs-out", "", "output path for the leg request fixture")
	briefsOut := flag.String("briefs-out", "", "optional output path for the evaluated briefs")
	flag.Parse()

	if *csvPath == "" || *legsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -csv, -legs-out")
	}

	domain.SetClock(clockwork.NewFakeClockAt(evaluatedAt))
	defer domain.SetClock(nil)

	reqs, err := readSchedule(*csvPath)
	if err != nil {
		return fmt.Errorf("processing %s: %w", *csvPath, err)
	}
	log.Printf("schedule: %d legs", len(reqs))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	transformer := pipeline.NewTransformer(domain.NewScorer(domain.DefaultHubs()), nil, false, logger)

	ctx := context.Background()
	briefs := make([]domain.Brief, 0, len(reqs))
	var rejected []string
	for _, req := range reqs {
		brief, err := transformer.Evaluate(ctx, req)
		if err != nil {
			rejected = append(rejected, fmt.Sprintf("%s [%s]: %v", req.FlightNo, pipeline.ErrorReason(err), err))
			continue
		}
		briefs = append(briefs, brief)
	}

	if err := writeJSON(*legsOut, reqs); err != nil {
		return fmt.Errorf("writing leg fixture: %w", err)
	}
	log.Printf("wrote leg fixture: %s", *legsOut)

	if *briefsOut != "" {
		if err := writeJSON(*briefsOut, briefs); err != nil {
			return fmt.Errorf("writing briefs: %w", err)
		}
		log.Printf("wrote briefs: %s", *briefsOut)
	}

	printStats(briefs, rejected)
	return nil
}

func readSchedule(path string) ([]domain.LegRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows")
	}

	colIdx := map[string]int{}
	for i, h := range rows[0] {
		colIdx[strings.TrimSpace(h)] = i
	}
	for _, col := range requiredCols {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	reqs := make([]domain.LegRequest, 0, len(rows)-1)
	for line, row := range rows[1:] {
		req := domain.LegRequest{
			FlightNo: get(row, colIdx, "flight_no"),
			Dep:      get(row, colIdx, "dep"),
			Arr:      get(row, colIdx, "arr"),
			DepTime:  get(row, colIdx, "dep_time"),
			ArrTime:  get(row, colIdx, "arr_time"),
			DepMETAR: get(row, colIdx, "dep_metar"),
			ArrMETAR: get(row, colIdx, "arr_metar"),
		}
		if s := get(row, colIdx, "distance_km"); s != "" {
			d, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: distance_km %q: %w", line+2, s, err)
			}
			req.DistanceKm = &d
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func get(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(briefs []domain.Brief, rejected []string) {
	bands := map[domain.Band]int{}
	categories := map[string]int{}
	for i := range briefs {
		b := &briefs[i]
		bands[b.Risk.Band]++
		categories[b.DepConditions.Category.String()]++
		categories[b.ArrConditions.Category.String()]++
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Evaluated: %d, rejected: %d\n", len(briefs), len(rejected))
	fmt.Printf("By band: low=%d, medium=%d, high=%d\n",
		bands[domain.BandLow], bands[domain.BandMedium], bands[domain.BandHigh])
	fmt.Printf("By category (both ends): VFR=%d, MVFR=%d, IFR=%d, LIFR=%d\n",
		categories["VFR"], categories["MVFR"], categories["IFR"], categories["LIFR"])

	sorted := make([]domain.Brief, len(briefs))
	copy(sorted, briefs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Risk.Value > sorted[j].Risk.Value })
	fmt.Println("\nBy score:")
	for i := range sorted {
		b := &sorted[i]
		fmt.Printf("  %-8s %s-%s %.2f (%s) DEP(%s) ARR(%s)\n",
			b.FlightNo, b.Dep, b.Arr, b.Risk.Value, b.Risk.Band,
			b.DepConditions.Summary(), b.ArrConditions.Summary())
	}

	if len(rejected) > 0 {
		fmt.Println("\nRejected:")
		for _, r := range rejected {
			fmt.Printf("  %s\n", r)
		}
	}
}
