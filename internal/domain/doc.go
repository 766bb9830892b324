// Package domain decodes surface weather reports and scores baseline delay
// risk for a single flight leg.
//
// # Report Conventions
//
// Reports follow the rough shape of a METAR body, e.g.
//
//	"ZBAA 200800Z 04005MPS 9999 FEW020 22/12 Q1015"
//
// The decoder is a deliberately approximate heuristic, not a grammar:
//
//	Significant weather is detected by whole-word tokens, checked in a fixed
//	priority order. The first class that matches is the only one recorded:
//	  TS  thunderstorm   TS, TSRA, SQ
//	  RA  rain           RA, SHRA
//	  SN  snow           SN, SHSN
//	  FG  obscuration    FG, BR, HZ
//
//	Visibility is the first standalone 4-digit group, read as meters.
//	"9999" means 10 km or more. Any other 4-digit group (a time group, a
//	runway number) is also picked up if it comes first. See [extractVisibility].
//
//	SKC or NSC anywhere in the text sets the clear-sky flag. It is recorded
//	for display and never changes the flight category.
//
// Flight category:
//
//	  VFR   visibility >= 5000 m
//	  MVFR  visibility <  5000 m
//	  IFR   visibility <  3000 m
//	  LIFR  visibility <  1600 m
//
//	Any recorded phenomenon lifts VFR to MVFR. It never moves a category past
//	MVFR on its own.
//
// Missing or empty reports decode to the default conditions (no weather, no
// visibility, VFR). Reports are best-effort and never fail a leg.
//
// # Risk Scoring
//
// The score is an additive sum of fixed weights (see [DefaultWeights]) over
// schedule peaks, hub congestion, weather at either end, flight category at
// each end, and short stage length. The sum is clamped to [0, 1] and rounded
// to two decimals, then banded: <= 0.33 low, <= 0.66 medium, else high.
//
// # ID Generation
//
// Brief IDs are deterministic SHA-256 hashes of flight|dep|arr|dep_time so a
// replayed request produces the same key downstream. See [generateID].
package domain
