package scoring

import (
	"github.com/coastwatch/coastal-risk-engine/internal/calibration"
	"github.com/coastwatch/coastal-risk-engine/internal/domain"
)

// ApplySegment projects a composite index onto one regional segment:
// overall × multiplier, clamped to [0,100], re-classified with the domain's
// thresholds. The multiplier reflects local geography (lagoon, port, open
// coast); it approximates spatial variation for map rendering and is not a
// segment-level measurement.
func ApplySegment(index domain.CompositeIndex, segment domain.RegionalSegment, thresholds calibration.TierThresholds) domain.SegmentScore {
	score := clamp(index.Overall * segment.Multiplier)
	return domain.SegmentScore{
		SegmentID: segment.ID,
		Name:      segment.Name,
		Domain:    index.Domain,
		Score:     score,
		RiskTier:  Classify(score, thresholds),
		Centroid:  segment.Centroid,
	}
}

// ApplySegments maps an index across every configured segment, in the order
// the segments were configured.
func ApplySegments(index domain.CompositeIndex, segments []domain.RegionalSegment, thresholds calibration.TierThresholds) []domain.SegmentScore {
	out := make([]domain.SegmentScore, len(segments))
	for i, seg := range segments {
		out[i] = ApplySegment(index, seg, thresholds)
	}
	return out
}
