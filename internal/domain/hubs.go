package domain

import "strings"

// DefaultHubCodes are the airports treated as congested hubs when no other
// reference set is configured.
var DefaultHubCodes = []string{
	"ZBAA", "ZSPD", "ZGGG", "ZGSZ", "RJTT", "RJAA", "VHHH", "WSSS",
	"KJFK", "KLAX", "KORD", "KSFO", "KATL", "KBOS", "KSEA",
}

// HubSet is a read-only set of location codes flagged as hubs.
type HubSet struct {
	codes map[string]struct{}
}

// NewHubSet builds a HubSet from configured codes. Codes are trimmed and
// uppercased; blanks are dropped.
func NewHubSet(codes ...string) HubSet {
	set := HubSet{codes: make(map[string]struct{}, len(codes))}
	for _, c := range codes {
		c = normalizeCode(c)
		if c == "" {
			continue
		}
		set.codes[c] = struct{}{}
	}
	return set
}

// DefaultHubs returns a fresh HubSet of DefaultHubCodes.
func DefaultHubs() HubSet {
	return NewHubSet(DefaultHubCodes...)
}

// Contains reports whether code is a hub. Lookup is exact and case-sensitive
// after trimming; no other validation of the code is done.
func (h HubSet) Contains(code string) bool {
	_, ok := h.codes[strings.TrimSpace(code)]
	return ok
}

// Len returns the number of hubs in the set.
func (h HubSet) Len() int {
	return len(h.codes)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
