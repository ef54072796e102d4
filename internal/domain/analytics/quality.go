package analytics

import "sort"

// Quality score component caps. A session that saturates every positive
// component while converted scores exactly 100.
const (
	durationScoreCap = 25.0
	pageScoreCap     = 20.0
	actionsScoreCap  = 25.0
	conversionBonus  = 30.0
	penaltyCap       = 10.0

	durationSaturationSec = 600.0
	pageSaturation        = 5.0
	actionSaturation      = 10.0
	penaltyPerSignal      = 2.0
)

// DistributionBins is the number of fixed-width score buckets in a
// quality report.
const DistributionBins = 5

var distributionLabels = [DistributionBins]string{"0-19", "20-39", "40-59", "60-79", "80-100"}

// QualityReport aggregates session quality scores over a reporting window.
type QualityReport struct {
	Sample       int            `json:"sample"`
	AvgScore     int            `json:"avgScore"`
	MedianScore  int            `json:"medianScore"`
	Distribution map[string]int `json:"distribution"`
}

// ScoreSession computes the 0-100 behavioral quality score for one session.
// Page depth, action count, and frustration signals are derived from the
// session's own events: pages are the distinct non-empty page values,
// actions are all events, frustration signals are rage-click events.
func ScoreSession(s *Session) int {
	pages := make(map[string]bool)
	frustrationSignals := 0
	for i := range s.Events {
		if p := s.Events[i].Page; p != "" {
			pages[p] = true
		}
		if s.Events[i].EventType == EventTypeFrustration {
			frustrationSignals++
		}
	}
	return scoreComponents(float64(s.DurationMs)/1000, len(pages), len(s.Events), s.Converted, frustrationSignals)
}

func scoreComponents(durationSeconds float64, pageCount, actionCount int, converted bool, frustrationSignals int) int {
	durationScore := capAt(durationSeconds/durationSaturationSec*durationScoreCap, durationScoreCap)
	pageScore := capAt(float64(pageCount)/pageSaturation*pageScoreCap, pageScoreCap)
	actionsScore := capAt(float64(actionCount)/actionSaturation*actionsScoreCap, actionsScoreCap)

	var bonus float64
	if converted {
		bonus = conversionBonus
	}
	penalty := capAt(float64(frustrationSignals)*penaltyPerSignal, penaltyCap)

	score := roundScore(durationScore + pageScore + actionsScore + bonus - penalty)
	if score < 0 {
		return 0
	}
	return score
}

func capAt(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}

// BuildQualityReport scores every session and aggregates.
func BuildQualityReport(sessions []Session) QualityReport {
	scores := make([]int, len(sessions))
	for i := range sessions {
		scores[i] = ScoreSession(&sessions[i])
	}
	return reportFromScores(scores)
}

// reportFromScores aggregates raw scores. The median is the element at
// index N/2 of the ascending-sorted scores. For even N that is the upper of
// the two middle values, not their average; downstream reports depend on
// that convention, so it is deliberate.
func reportFromScores(scores []int) QualityReport {
	report := QualityReport{
		Sample:       len(scores),
		Distribution: make(map[string]int, DistributionBins),
	}
	for _, label := range distributionLabels {
		report.Distribution[label] = 0
	}
	if len(scores) == 0 {
		return report
	}

	total := 0
	for _, score := range scores {
		total += score
		report.Distribution[distributionLabels[binForScore(score)]]++
	}

	sorted := append([]int(nil), scores...)
	sort.Ints(sorted)
	report.AvgScore = roundScore(float64(total) / float64(len(sorted)))
	report.MedianScore = sorted[len(sorted)/2]
	return report
}

func binForScore(score int) int {
	bin := score / 20
	if bin >= DistributionBins {
		bin = DistributionBins - 1
	}
	return bin
}
