package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var legValidate = validator.New()

// RawMessage represents an unprocessed message from the source topic.
type RawMessage struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// LegRequest is the wire form of a leg to brief. Reports and distance are optional.
type LegRequest struct {
	FlightNo   string   `json:"flight_no" validate:"required"`
	Dep        string   `json:"dep" validate:"required"`
	Arr        string   `json:"arr" validate:"required"`
	DepTime    string   `json:"dep_time" validate:"required"`
	ArrTime    string   `json:"arr_time" validate:"required"`
	DepMETAR   string   `json:"dep_metar,omitempty"`
	ArrMETAR   string   `json:"arr_metar,omitempty"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// ValidationError reports a LegRequest that is missing or has malformed fields.
type ValidationError struct {
	Fields []string
	err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid leg request: %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error { return e.err }

// ParseLegRequest deserializes a RawMessage's value into a LegRequest.
func ParseLegRequest(raw RawMessage) (LegRequest, error) {
	var req LegRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return LegRequest{}, fmt.Errorf("parse leg request: %w", err)
	}
	return req, nil
}

// Normalize trims every field. Location codes keep their case.
func (r LegRequest) Normalize() LegRequest {
	r.FlightNo = strings.TrimSpace(r.FlightNo)
	r.Dep = strings.TrimSpace(r.Dep)
	r.Arr = strings.TrimSpace(r.Arr)
	r.DepTime = strings.TrimSpace(r.DepTime)
	r.ArrTime = strings.TrimSpace(r.ArrTime)
	r.DepMETAR = strings.TrimSpace(r.DepMETAR)
	r.ArrMETAR = strings.TrimSpace(r.ArrMETAR)
	return r
}

// Validate checks that the required fields are present. Code shape is not
// checked, timestamps are checked later by HourOf, and distance is not
// range-checked.
func (r LegRequest) Validate() error {
	err := legValidate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate leg request: %w", err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return &ValidationError{Fields: fields, err: err}
}

// ReportOrigin records where a leg end's weather report came from.
type ReportOrigin string

const (
	ReportSupplied ReportOrigin = "supplied"
	ReportFetched  ReportOrigin = "fetched"
	ReportMissing  ReportOrigin = "missing"
	ReportFailed   ReportOrigin = "failed"
)

// DistanceOrigin records where a leg's stage length came from.
type DistanceOrigin string

const (
	DistanceSupplied DistanceOrigin = "supplied"
	DistanceDerived  DistanceOrigin = "derived"
	DistanceNone     DistanceOrigin = "none"
)

// FlightLeg is one scheduled leg with whatever weather reports are known for it.
type FlightLeg struct {
	FlightNo        string
	Dep             string
	Arr             string
	DepTime         string
	ArrTime         string
	DepReport       string
	ArrReport       string
	DepReportSource ReportOrigin
	ArrReportSource ReportOrigin
	DistanceKm      *float64
	DistanceSource  DistanceOrigin
}

// NewFlightLeg builds a FlightLeg from a normalized request.
func NewFlightLeg(req LegRequest) FlightLeg {
	leg := FlightLeg{
		FlightNo:        req.FlightNo,
		Dep:             req.Dep,
		Arr:             req.Arr,
		DepTime:         req.DepTime,
		ArrTime:         req.ArrTime,
		DepReport:       req.DepMETAR,
		ArrReport:       req.ArrMETAR,
		DepReportSource: reportOrigin(req.DepMETAR),
		ArrReportSource: reportOrigin(req.ArrMETAR),
		DistanceSource:  DistanceNone,
	}
	if req.DistanceKm != nil {
		d := *req.DistanceKm
		leg.DistanceKm = &d
		leg.DistanceSource = DistanceSupplied
	}
	return leg
}

func reportOrigin(report string) ReportOrigin {
	if report == "" {
		return ReportMissing
	}
	return ReportSupplied
}

// Brief is the evaluated leg: decoded weather at both ends and the risk score.
type Brief struct {
	ID              string            `json:"id"`
	FlightNo        string            `json:"flight_no"`
	Dep             string            `json:"dep"`
	Arr             string            `json:"arr"`
	DepTime         string            `json:"dep_time"`
	ArrTime         string            `json:"arr_time"`
	DepConditions   WeatherConditions `json:"dep_conditions"`
	ArrConditions   WeatherConditions `json:"arr_conditions"`
	DepReportSource ReportOrigin      `json:"dep_report_source"`
	ArrReportSource ReportOrigin      `json:"arr_report_source"`
	DistanceKm      *float64          `json:"distance_km,omitempty"`
	DistanceSource  DistanceOrigin    `json:"distance_source"`
	Risk            RiskScore         `json:"risk"`
	EvaluatedAt     time.Time         `json:"evaluated_at"`
}

// Evaluate decodes both reports, reads the schedule hours, and scores the leg.
// The only failure is a malformed timestamp, returned as *FormatError.
func Evaluate(leg FlightLeg, scorer *Scorer) (Brief, error) {
	depHour, err := HourOf(leg.DepTime)
	if err != nil {
		return Brief{}, withField(err, "dep_time")
	}
	arrHour, err := HourOf(leg.ArrTime)
	if err != nil {
		return Brief{}, withField(err, "arr_time")
	}

	depCond := DecodeConditions(leg.DepReport)
	arrCond := DecodeConditions(leg.ArrReport)

	risk := scorer.Assess(RiskInput{
		DepHour:       depHour,
		ArrHour:       arrHour,
		DepCode:       leg.Dep,
		ArrCode:       leg.Arr,
		DepConditions: depCond,
		ArrConditions: arrCond,
		DistanceKm:    leg.DistanceKm,
	})

	return Brief{
		ID:              generateID(leg.FlightNo, leg.Dep, leg.Arr, leg.DepTime),
		FlightNo:        leg.FlightNo,
		Dep:             leg.Dep,
		Arr:             leg.Arr,
		DepTime:         leg.DepTime,
		ArrTime:         leg.ArrTime,
		DepConditions:   depCond,
		ArrConditions:   arrCond,
		DepReportSource: leg.DepReportSource,
		ArrReportSource: leg.ArrReportSource,
		DistanceKm:      leg.DistanceKm,
		DistanceSource:  leg.DistanceSource,
		Risk:            risk,
		EvaluatedAt:     clock.Now().UTC(),
	}, nil
}

func withField(err error, field string) error {
	var fe *FormatError
	if errors.As(err, &fe) {
		return &FormatError{Field: field, Value: fe.Value}
	}
	return err
}
