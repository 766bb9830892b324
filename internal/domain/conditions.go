package domain

// Phenomenon is the single significant-weather class recorded for a report.
type Phenomenon string

const (
	PhenomenonNone         Phenomenon = ""
	PhenomenonThunderstorm Phenomenon = "TS"
	PhenomenonRain         Phenomenon = "RA"
	PhenomenonSnow         Phenomenon = "SN"
	PhenomenonObscuration  Phenomenon = "FG"
)

// FlightCategory is the ordinal ceiling/visibility class. Higher values are worse.
type FlightCategory int

const (
	CategoryVFR FlightCategory = iota
	CategoryMVFR
	CategoryIFR
	CategoryLIFR
)

var categoryNames = [...]string{"VFR", "MVFR", "IFR", "LIFR"}

func (c FlightCategory) String() string {
	if c < CategoryVFR || c > CategoryLIFR {
		return "UNKNOWN"
	}
	return categoryNames[c]
}

// MarshalText encodes the category by name so JSON carries "MVFR", not 1.
func (c FlightCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText. Unknown names decode as VFR.
func (c *FlightCategory) UnmarshalText(text []byte) error {
	*c = CategoryVFR
	for i, name := range categoryNames {
		if name == string(text) {
			*c = FlightCategory(i)
			break
		}
	}
	return nil
}

// WeatherConditions is the decoded summary of one surface weather report.
type WeatherConditions struct {
	Phenomenon  Phenomenon     `json:"phenomenon,omitempty"`
	VisibilityM *int           `json:"visibility_m,omitempty"`
	SkyClear    bool           `json:"sky_clear"`
	Category    FlightCategory `json:"category"`
}

// DefaultConditions is what an absent report decodes to: unknown, assume VMC.
func DefaultConditions() WeatherConditions {
	return WeatherConditions{Category: CategoryVFR}
}

// HasPhenomenon reports whether any significant weather was recorded.
func (w WeatherConditions) HasPhenomenon() bool {
	return w.Phenomenon != PhenomenonNone
}

// Summary renders the category with the phenomenon code, e.g. "MVFR,RA".
func (w WeatherConditions) Summary() string {
	if !w.HasPhenomenon() {
		return w.Category.String()
	}
	return w.Category.String() + "," + string(w.Phenomenon)
}
