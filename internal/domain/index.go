package domain

import "time"

// Domain is one risk or health category computed by the engine.
type Domain string

const (
	DomainOceanHealth   Domain = "oceanHealth"
	DomainFloodRisk     Domain = "floodRisk"
	DomainStormSurge    Domain = "stormSurge"
	DomainCycloneRisk   Domain = "cycloneRisk"
	DomainReefBleaching Domain = "reefBleaching"
)

// AllDomains lists every computable domain in stable order.
var AllDomains = []Domain{
	DomainOceanHealth, DomainFloodRisk, DomainStormSurge,
	DomainCycloneRisk, DomainReefBleaching,
}

// Known reports whether d names a computable domain.
func (d Domain) Known() bool {
	switch d {
	case DomainOceanHealth, DomainFloodRisk, DomainStormSurge, DomainCycloneRisk, DomainReefBleaching:
		return true
	}
	return false
}

// Location is a [lat, lng] coordinate pair, in that order.
type Location [2]float64

// Lat returns the latitude component.
func (l Location) Lat() float64 { return l[0] }

// Lng returns the longitude component.
func (l Location) Lng() float64 { return l[1] }

// SubScore is the normalized 0–100 contribution of one measurement kind to one
// domain index. Immutable after creation by the normalizer.
type SubScore struct {
	Kind          MeasurementKind `json:"kind"`
	Score         float64         `json:"score"`
	IsSubstituted bool            `json:"isSubstituted"`
	Domain        Domain          `json:"domain"`
}

// CompositeIndex is the aggregated result for one domain at one location and
// time. Built fresh on every computation; never persisted.
type CompositeIndex struct {
	Domain     Domain     `json:"domain"`
	Overall    float64    `json:"overall"`
	SubScores  []SubScore `json:"subScores"`
	Confidence float64    `json:"confidence"`
	RiskTier   RiskTier   `json:"riskTier"`
	Location   Location   `json:"location"`
	ComputedAt time.Time  `json:"computedAt"`
}

// RegionalSegment is a named geographic zone with a baseline multiplier.
// Static reference data loaded at startup; never mutated at runtime.
type RegionalSegment struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Category   string   `json:"category" yaml:"category"` // e.g. "lagoon", "port", "open coast"
	Centroid   Location `json:"centroid" yaml:"centroid"`
	Multiplier float64  `json:"multiplier" yaml:"multiplier"`
}

// SegmentScore is a composite index projected onto one regional segment for
// map rendering. The multiplier approximates local geography; it is not a
// segment-level measurement (sparse sensing, dense visualization).
type SegmentScore struct {
	SegmentID string   `json:"segmentId"`
	Name      string   `json:"name"`
	Domain    Domain   `json:"domain"`
	Score     float64  `json:"score"`
	RiskTier  RiskTier `json:"riskTier"`
	Centroid  Location `json:"centroid"`
}
