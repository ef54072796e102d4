package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// saturatedSession builds a session that maxes every positive score
// component: 10 minutes long, 5 distinct pages, 10 events, converted.
func saturatedSession() Session {
	events := make([]RawEvent, 0, 10)
	for i := 0; i < 9; i++ {
		events = append(events, RawEvent{
			SessionID: "s1",
			Timestamp: testBase.Add(time.Duration(i) * time.Minute),
			EventType: EventTypePageView,
			Page:      fmt.Sprintf("/page/%d", i%5),
		})
	}
	events = append(events, RawEvent{
		SessionID: "s1",
		Timestamp: testBase.Add(10 * time.Minute),
		EventType: EventTypeCheckoutComplete,
		Page:      "/page/0",
	})
	sessions := ReconstructSessions(events)
	return sessions[0]
}

func TestScoreSessionSaturatedConvertedIsExactly100(t *testing.T) {
	s := saturatedSession()
	assert.Equal(t, 100, ScoreSession(&s))
}

func TestScoreSessionStaysInRangeUnderHeavyFrustration(t *testing.T) {
	frustrated := Session{SessionID: "s2"}
	for i := 0; i < 6; i++ {
		frustrated.Events = append(frustrated.Events, RawEvent{
			SessionID: "s2",
			EventType: EventTypeFrustration,
			Page:      "/p",
		})
	}

	score := ScoreSession(&frustrated)
	assert.GreaterOrEqual(t, score, 0, "penalty never drives the score below zero")
	assert.LessOrEqual(t, score, 100)
}

func TestScoreSessionPenaltySaturatesAtFiveSignals(t *testing.T) {
	base := saturatedSession()

	withSignals := func(n int) Session {
		s := base
		s.Events = append([]RawEvent(nil), base.Events...)
		for i := 0; i < n; i++ {
			s.Events = append(s.Events, RawEvent{SessionID: "s1", EventType: EventTypeFrustration, Page: "/page/0"})
		}
		return s
	}

	five := withSignals(5)
	ten := withSignals(10)
	assert.Equal(t, 90, ScoreSession(&five))
	assert.Equal(t, ScoreSession(&five), ScoreSession(&ten))
}

func TestReportMedianIsUpperMiddle(t *testing.T) {
	report := reportFromScores([]int{40, 10, 30, 20})
	assert.Equal(t, 30, report.MedianScore, "even-length median is the upper middle element, not the average")
	assert.Equal(t, 25, report.AvgScore)
	assert.Equal(t, 4, report.Sample)
}

func TestReportDistributionSumsToSample(t *testing.T) {
	report := reportFromScores([]int{0, 5, 20, 45, 45, 60, 85, 100})

	assert.Equal(t, 8, report.Sample)
	total := 0
	for _, n := range report.Distribution {
		total += n
	}
	assert.Equal(t, report.Sample, total)
	assert.Equal(t, 2, report.Distribution["0-19"])
	assert.Equal(t, 1, report.Distribution["20-39"])
	assert.Equal(t, 2, report.Distribution["40-59"])
	assert.Equal(t, 1, report.Distribution["60-79"])
	assert.Equal(t, 2, report.Distribution["80-100"], "a score of 100 lands in the top bin, not out of range")
}

func TestBuildQualityReportEmpty(t *testing.T) {
	report := BuildQualityReport(nil)
	assert.Zero(t, report.Sample)
	assert.Zero(t, report.AvgScore)
	assert.Zero(t, report.MedianScore)
	assert.Len(t, report.Distribution, DistributionBins)
}

func TestBuildQualityReportScoresRealSessions(t *testing.T) {
	sessions := []Session{saturatedSession(), {SessionID: "empty"}}
	report := BuildQualityReport(sessions)

	assert.Equal(t, 2, report.Sample)
	assert.Equal(t, 50, report.AvgScore)
	assert.Equal(t, 100, report.MedianScore)
	assert.Equal(t, 1, report.Distribution["0-19"])
	assert.Equal(t, 1, report.Distribution["80-100"])
}
