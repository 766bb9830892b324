package awc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/couchcryptid/flight-brief/internal/domain"
	"github.com/couchcryptid/flight-brief/internal/observability"
)

const (
	// DefaultBaseURL is the public Aviation Weather Center data API.
	DefaultBaseURL = "https://aviationweather.gov"
	metarPath      = "/api/data/metar"
	defaultRetries = 3
)

// Client implements domain.ReportSource using the Aviation Weather Center METAR API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an AWC client. Transient failures (connection errors and
// 5xx responses) are retried before the request is reported as failed.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.Logger = logger
	rc.RetryMax = defaultRetries
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second

	httpClient := rc.StandardClient()
	httpClient.Timeout = timeout

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		metrics:    metrics,
		logger:     logger,
	}
}

// LatestReport fetches the most recent METAR for station. A station with no
// current report yields an empty StationReport and a nil error.
func (c *Client) LatestReport(ctx context.Context, station string) (domain.StationReport, error) {
	params := url.Values{
		"ids":    {strings.ToUpper(strings.TrimSpace(station))},
		"format": {"json"},
	}
	fullURL := c.baseURL + metarPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.StationReport{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ReportAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ReportRequests.WithLabelValues("error").Inc()
		return domain.StationReport{}, fmt.Errorf("metar request for %s: %w", station, err)
	}
	defer resp.Body.Close()

	// The API answers 204 when no station matched.
	if resp.StatusCode == http.StatusNoContent {
		c.metrics.ReportRequests.WithLabelValues("empty").Inc()
		return domain.StationReport{}, nil
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.metrics.ReportRequests.WithLabelValues("error").Inc()
		return domain.StationReport{}, fmt.Errorf("awc API error: status %d: %s", resp.StatusCode, body)
	}

	var observations []metar
	if err := json.NewDecoder(resp.Body).Decode(&observations); err != nil {
		c.metrics.ReportRequests.WithLabelValues("error").Inc()
		return domain.StationReport{}, fmt.Errorf("decode response: %w", err)
	}

	if len(observations) == 0 || strings.TrimSpace(observations[0].RawOb) == "" {
		c.metrics.ReportRequests.WithLabelValues("empty").Inc()
		return domain.StationReport{}, nil
	}

	c.metrics.ReportRequests.WithLabelValues("success").Inc()
	return observations[0].toStationReport(c.logger), nil
}

// AWC API response types.

type metar struct {
	ICAOID     string  `json:"icaoId"`
	RawOb      string  `json:"rawOb"`
	ReportTime string  `json:"reportTime"` // "2025-09-20T08:00:00.000Z"
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	FltCat     string  `json:"fltCat"`
}

func (m metar) toStationReport(logger *slog.Logger) domain.StationReport {
	report := domain.StationReport{
		Station: m.ICAOID,
		Raw:     strings.TrimSpace(m.RawOb),
		Lat:     m.Lat,
		Lon:     m.Lon,
	}
	if m.ReportTime != "" {
		observed, err := time.Parse(time.RFC3339Nano, m.ReportTime)
		if err != nil {
			logger.Debug("unparseable report time", "station", m.ICAOID, "report_time", m.ReportTime)
		} else {
			report.ObservedAt = observed.UTC()
		}
	}
	return report
}
