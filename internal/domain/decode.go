package domain

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	mvfrVisibilityM = 5000
	ifrVisibilityM  = 3000
	lifrVisibilityM = 1600
)

// phenomenonRule maps a whole-word token pattern to the phenomenon it indicates.
type phenomenonRule struct {
	pattern    *regexp.Regexp
	phenomenon Phenomenon
}

var (
	// phenomenonRules is evaluated top to bottom; the first match wins.
	phenomenonRules = []phenomenonRule{
		{regexp.MustCompile(`\b(?:TS|TSRA|SQ)\b`), PhenomenonThunderstorm},
		{regexp.MustCompile(`\b(?:RA|SHRA)\b`), PhenomenonRain},
		{regexp.MustCompile(`\b(?:SN|SHSN)\b`), PhenomenonSnow},
		{regexp.MustCompile(`\b(?:FG|BR|HZ)\b`), PhenomenonObscuration},
	}

	// visibilityRe matches any standalone 4-digit group, e.g. "9999" or "0800".
	visibilityRe = regexp.MustCompile(`\b(\d{4})\b`)

	// clearSkyTokens are the "no significant cloud" markers.
	clearSkyTokens = []string{"SKC", "NSC"}
)

// DecodeConditions turns one raw report into WeatherConditions.
// An empty report yields DefaultConditions. It never fails.
func DecodeConditions(report string) WeatherConditions {
	if strings.TrimSpace(report) == "" {
		return DefaultConditions()
	}

	phenomenon := detectPhenomenon(report)
	visibility := extractVisibility(report)

	return WeatherConditions{
		Phenomenon:  phenomenon,
		VisibilityM: visibility,
		SkyClear:    detectClearSky(report),
		Category:    deriveCategory(visibility, phenomenon),
	}
}

// detectPhenomenon returns the highest-priority phenomenon present in the report.
func detectPhenomenon(report string) Phenomenon {
	for _, rule := range phenomenonRules {
		if rule.pattern.MatchString(report) {
			return rule.phenomenon
		}
	}
	return PhenomenonNone
}

// extractVisibility reads the first standalone 4-digit group as meters.
//
// This is the only place visibility is parsed. The rule does not know which
// group is the visibility group, so an earlier 4-digit group (a time like
// "0930" with no Z suffix, a runway designator) wins over the real one.
// Returns nil when no 4-digit group exists.
func extractVisibility(report string) *int {
	m := visibilityRe.FindStringSubmatch(report)
	if len(m) != 2 {
		return nil
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &v
}

func detectClearSky(report string) bool {
	for _, tok := range clearSkyTokens {
		if strings.Contains(report, tok) {
			return true
		}
	}
	return false
}

// deriveCategory applies the visibility thresholds first, then lets a
// phenomenon lift VFR to MVFR.
func deriveCategory(visibility *int, phenomenon Phenomenon) FlightCategory {
	category := CategoryVFR
	if visibility != nil {
		switch v := *visibility; {
		case v < lifrVisibilityM:
			category = CategoryLIFR
		case v < ifrVisibilityM:
			category = CategoryIFR
		case v < mvfrVisibilityM:
			category = CategoryMVFR
		}
	}
	if phenomenon != PhenomenonNone && category == CategoryVFR {
		category = CategoryMVFR
	}
	return category
}
