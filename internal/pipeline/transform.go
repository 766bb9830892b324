package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/flight-brief/internal/domain"
)

// BriefTransformer implements Transformer by evaluating leg requests with the
// domain scorer and, optionally, fetching missing weather reports.
type BriefTransformer struct {
	scorer         *domain.Scorer
	source         domain.ReportSource
	deriveDistance bool
	logger         *slog.Logger
}

// NewTransformer creates a BriefTransformer. Pass a nil source to disable
// report fetching; deriveDistance only applies when a source is set.
func NewTransformer(scorer *domain.Scorer, source domain.ReportSource, deriveDistance bool, logger *slog.Logger) *BriefTransformer {
	return &BriefTransformer{
		scorer:         scorer,
		source:         source,
		deriveDistance: deriveDistance,
		logger:         logger,
	}
}

func (t *BriefTransformer) Transform(ctx context.Context, raw domain.RawMessage) (domain.Brief, error) {
	req, err := domain.ParseLegRequest(raw)
	if err != nil {
		return domain.Brief{}, err
	}
	return t.Evaluate(ctx, req)
}

// Evaluate normalizes and validates req, fills in missing reports, and scores the leg.
func (t *BriefTransformer) Evaluate(ctx context.Context, req domain.LegRequest) (domain.Brief, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return domain.Brief{}, err
	}

	leg := domain.NewFlightLeg(req)
	leg = domain.EnrichWithReports(ctx, leg, t.source, t.deriveDistance, t.logger)

	return domain.Evaluate(leg, t.scorer)
}
