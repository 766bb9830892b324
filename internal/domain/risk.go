package domain

import (
	"fmt"
	"math"
)

// Band is the coarse label attached to a risk score.
type Band string

const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

const (
	lowBandCeiling    = 0.33
	mediumBandCeiling = 0.66
)

// Weights are the additive contributions of each risk signal.
type Weights struct {
	MorningPeak  float64 // per end, hour in [6,9]
	EveningPeak  float64 // per end, hour in [17,21]
	DepartureHub float64
	ArrivalHub   float64
	Phenomenon   map[Phenomenon]float64 // once per distinct phenomenon across both ends
	Category     map[FlightCategory]float64
	ShortStage   float64
	// ShortStageKm is the exclusive upper bound for a short stage.
	ShortStageKm float64
}

// DefaultWeights returns the baseline weight table.
func DefaultWeights() Weights {
	return Weights{
		MorningPeak:  0.12,
		EveningPeak:  0.10,
		DepartureHub: 0.05,
		ArrivalHub:   0.10,
		Phenomenon: map[Phenomenon]float64{
			PhenomenonRain:         0.18,
			PhenomenonSnow:         0.25,
			PhenomenonThunderstorm: 0.35,
			PhenomenonObscuration:  0.22,
		},
		Category: map[FlightCategory]float64{
			CategoryMVFR: 0.06,
			CategoryIFR:  0.12,
			CategoryLIFR: 0.20,
		},
		ShortStage:   0.05,
		ShortStageKm: 800,
	}
}

// phenomenonOrder fixes the order contributions are listed in.
var phenomenonOrder = []Phenomenon{
	PhenomenonRain, PhenomenonSnow, PhenomenonThunderstorm, PhenomenonObscuration,
}

// RiskInput is everything the scorer looks at for one leg.
type RiskInput struct {
	DepHour       int
	ArrHour       int
	DepCode       string
	ArrCode       string
	DepConditions WeatherConditions
	ArrConditions WeatherConditions
	DistanceKm    *float64
}

// Contribution is one rule that fired and the weight it added.
type Contribution struct {
	Factor string  `json:"factor"`
	Weight float64 `json:"weight"`
}

// RiskScore is the clamped, rounded score with its band.
type RiskScore struct {
	Value         float64        `json:"value"`
	Band          Band           `json:"band"`
	Contributions []Contribution `json:"contributions,omitempty"`
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithWeights replaces the default weight table.
func WithWeights(w Weights) ScorerOption {
	return func(s *Scorer) {
		s.weights = w
	}
}

// Scorer computes baseline delay risk against a fixed hub reference set.
// It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	hubs    HubSet
	weights Weights
}

// NewScorer creates a Scorer over hubs using DefaultWeights unless overridden.
func NewScorer(hubs HubSet, opts ...ScorerOption) *Scorer {
	s := &Scorer{hubs: hubs, weights: DefaultWeights()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score returns the risk value in [0, 1], rounded to two decimals.
func (s *Scorer) Score(in RiskInput) float64 {
	return finalize(sumContributions(s.contributions(in)))
}

// Assess scores the leg and attaches the band and the rules that fired.
func (s *Scorer) Assess(in RiskInput) RiskScore {
	contribs := s.contributions(in)
	value := finalize(sumContributions(contribs))
	return RiskScore{
		Value:         value,
		Band:          BandFor(value),
		Contributions: contribs,
	}
}

// contributions evaluates every rule independently.
func (s *Scorer) contributions(in RiskInput) []Contribution {
	w := s.weights
	var out []Contribution
	add := func(factor string, weight float64) {
		out = append(out, Contribution{Factor: factor, Weight: weight})
	}

	for _, end := range []struct {
		name string
		hour int
	}{{"dep", in.DepHour}, {"arr", in.ArrHour}} {
		if end.hour >= 6 && end.hour <= 9 {
			add(end.name+"_morning_peak", w.MorningPeak)
		}
		if end.hour >= 17 && end.hour <= 21 {
			add(end.name+"_evening_peak", w.EveningPeak)
		}
	}

	if s.hubs.Contains(in.DepCode) {
		add("dep_hub", w.DepartureHub)
	}
	if s.hubs.Contains(in.ArrCode) {
		add("arr_hub", w.ArrivalHub)
	}

	observed := map[Phenomenon]bool{
		in.DepConditions.Phenomenon: true,
		in.ArrConditions.Phenomenon: true,
	}
	for _, p := range phenomenonOrder {
		if observed[p] {
			add("weather_"+string(p), w.Phenomenon[p])
		}
	}

	for _, end := range []struct {
		name string
		cat  FlightCategory
	}{{"dep", in.DepConditions.Category}, {"arr", in.ArrConditions.Category}} {
		if weight, ok := w.Category[end.cat]; ok && weight != 0 {
			add(fmt.Sprintf("%s_category_%s", end.name, end.cat), weight)
		}
	}

	if in.DistanceKm != nil && *in.DistanceKm < w.ShortStageKm {
		add("short_stage", w.ShortStage)
	}

	return out
}

func sumContributions(contribs []Contribution) float64 {
	var total float64
	for _, c := range contribs {
		total += c.Weight
	}
	return total
}

// finalize clamps to [0, 1] and rounds to two decimals.
func finalize(score float64) float64 {
	score = math.Max(0, math.Min(1, score))
	return math.Round(score*100) / 100
}

// BandFor maps a score to its band. Both ceilings are inclusive.
func BandFor(score float64) Band {
	switch {
	case score <= lowBandCeiling:
		return BandLow
	case score <= mediumBandCeiling:
		return BandMedium
	default:
		return BandHigh
	}
}
