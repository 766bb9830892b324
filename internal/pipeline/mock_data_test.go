package pipeline_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/flight-brief/internal/domain"
	"github.com/couchcryptid/flight-brief/internal/pipeline"
)

func TestBriefTransformer_WithMockLegs(t *testing.T) {
	withFixedClock(t)
	transformer := pipeline.NewTransformer(domain.NewScorer(domain.DefaultHubs()), nil, false, discardLogger())

	expected := map[string]struct {
		value  float64
		band   domain.Band
		depCat domain.FlightCategory
		arrCat domain.FlightCategory
	}{
		"CA123":  {0.51, domain.BandMedium, domain.CategoryVFR, domain.CategoryMVFR},
		"MU5101": {0.05, domain.BandLow, domain.CategoryVFR, domain.CategoryVFR},
		"CZ3101": {0.82, domain.BandHigh, domain.CategoryIFR, domain.CategoryVFR},
		"HU7601": {0.87, domain.BandHigh, domain.CategoryLIFR, domain.CategoryMVFR},
		"3U8881": {0.33, domain.BandLow, domain.CategoryMVFR, domain.CategoryVFR},
		"KE852":  {0.20, domain.BandLow, domain.CategoryVFR, domain.CategoryVFR},
		"NH920":  {0.66, domain.BandMedium, domain.CategoryMVFR, domain.CategoryVFR},
		"DL1":    {0.67, domain.BandHigh, domain.CategoryVFR, domain.CategoryMVFR},
	}
	rejected := map[string]string{
		"ZZ9":  pipeline.ReasonFormat,
		"ZZ10": pipeline.ReasonValidation,
	}

	legs := loadMockLegs(t)
	require.Len(t, legs, len(expected)+len(rejected))

	for _, raw := range legs {
		flight := string(raw.Key)
		t.Run(flight, func(t *testing.T) {
			brief, err := transformer.Transform(context.Background(), raw)

			if reason, ok := rejected[flight]; ok {
				require.Error(t, err)
				assert.Equal(t, reason, pipeline.ErrorReason(err))
				return
			}

			require.NoError(t, err)
			want := expected[flight]
			assert.Equal(t, want.value, brief.Risk.Value)
			assert.Equal(t, want.band, brief.Risk.Band)
			assert.Equal(t, want.depCat, brief.DepConditions.Category, "dep category")
			assert.Equal(t, want.arrCat, brief.ArrConditions.Category, "arr category")
			assert.GreaterOrEqual(t, brief.Risk.Value, 0.0)
			assert.LessOrEqual(t, brief.Risk.Value, 1.0)
		})
	}
}

func TestBriefTransformer_MockLegsContributions(t *testing.T) {
	transformer := pipeline.NewTransformer(domain.NewScorer(domain.DefaultHubs()), nil, false, discardLogger())

	for _, raw := range loadMockLegs(t) {
		if string(raw.Key) != "HU7601" {
			continue
		}
		brief, err := transformer.Transform(context.Background(), raw)
		require.NoError(t, err)

		factors := make([]string, 0, len(brief.Risk.Contributions))
		for _, c := range brief.Risk.Contributions {
			factors = append(factors, c.Factor)
		}
		// BR and FG fold into one obscuration class, counted once.
		assert.Equal(t, []string{
			"dep_morning_peak", "arr_morning_peak", "dep_hub", "arr_hub",
			"weather_FG", "dep_category_LIFR", "arr_category_MVFR",
		}, factors)
		return
	}
	t.Fatal("HU7601 missing from mock legs")
}

// loadMockLegs reads the leg request fixture written by cmd/genmock.
func loadMockLegs(t *testing.T) []domain.RawMessage {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "data", "mock", "legs.json"))
	require.NoError(t, err)

	var reqs []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &reqs))

	out := make([]domain.RawMessage, 0, len(reqs))
	for _, r := range reqs {
		var head struct {
			FlightNo string `json:"flight_no"`
		}
		require.NoError(t, json.Unmarshal(r, &head))
		out = append(out, domain.RawMessage{Key: []byte(head.FlightNo), Value: r})
	}
	return out
}
