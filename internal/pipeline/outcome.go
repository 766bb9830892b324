package pipeline

import (
	"encoding/json"
	"errors"

	"github.com/couchcryptid/flight-brief/internal/domain"
	"github.com/couchcryptid/flight-brief/internal/observability"
)

// Transform failure reasons, used as the transform_errors_total label.
const (
	ReasonParse      = "parse"
	ReasonValidation = "validation"
	ReasonFormat     = "format"
	ReasonOther      = "other"
)

// ErrorReason classifies a Transform error.
func ErrorReason(err error) string {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		validErr  *domain.ValidationError
		formatErr *domain.FormatError
	)
	switch {
	case errors.As(err, &validErr):
		return ReasonValidation
	case errors.As(err, &formatErr):
		return ReasonFormat
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return ReasonParse
	default:
		return ReasonOther
	}
}

// RecordBrief counts an evaluated brief by band and by where each end's report came from.
func RecordBrief(m *observability.Metrics, b domain.Brief) {
	m.BriefsEvaluated.WithLabelValues(string(b.Risk.Band)).Inc()
	m.ReportOutcomes.WithLabelValues("dep", string(b.DepReportSource)).Inc()
	m.ReportOutcomes.WithLabelValues("arr", string(b.ArrReportSource)).Inc()
}
