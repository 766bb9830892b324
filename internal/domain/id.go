package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// generateID produces a deterministic ID from the leg's schedule identity.
// Re-briefing the same leg yields the same ID.
func generateID(flightNo, dep, arr, depTime string) string {
	input := fmt.Sprintf("%s|%s|%s|%s", flightNo, dep, arr, depTime)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if flightNo == "" {
		return short
	}
	return flightNo + "-" + short
}
