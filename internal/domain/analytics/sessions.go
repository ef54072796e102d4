package analytics

import (
	"sort"
	"strings"
)

// patternDepth is how many leading search queries form a session's
// behavioral fingerprint.
const patternDepth = 5

// PatternSeparator joins the leading queries of a session into its pattern
// fingerprint. Dashboards render it verbatim.
const PatternSeparator = " → "

// ReconstructSessions groups raw events by session id into time-ordered
// sessions. Events with an empty session id are discarded. The number of
// returned sessions always equals the number of distinct non-empty session
// ids in the input.
func ReconstructSessions(events []RawEvent) []Session {
	groups := make(map[string][]RawEvent)
	for i := range events {
		if events[i].SessionID == "" {
			continue
		}
		groups[events[i].SessionID] = append(groups[events[i].SessionID], events[i])
	}

	sessions := make([]Session, 0, len(groups))
	for sessionID, group := range groups {
		sessions = append(sessions, buildSession(sessionID, group))
	}

	// Deterministic output order: oldest session first, ties by id.
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].StartTime.Equal(sessions[j].StartTime) {
			return sessions[i].StartTime.Before(sessions[j].StartTime)
		}
		return sessions[i].SessionID < sessions[j].SessionID
	})

	return sessions
}

func buildSession(sessionID string, group []RawEvent) Session {
	sort.SliceStable(group, func(i, j int) bool {
		return group[i].Timestamp.Before(group[j].Timestamp)
	})

	s := Session{
		SessionID: sessionID,
		Events:    group,
		StartTime: group[0].Timestamp,
		EndTime:   group[len(group)-1].Timestamp,
	}
	s.DurationMs = s.EndTime.Sub(s.StartTime).Milliseconds()
	if s.DurationMs < 0 {
		s.DurationMs = 0
	}

	uniqueQueries := make(map[string]bool)
	var patternQueries []string

	for i := range group {
		e := &group[i]
		if s.UserID == "" && e.UserID != "" {
			s.UserID = e.UserID
		}
		if e.IsCheckout() {
			s.Converted = true
		}
		if e.IsAddToCart() {
			s.AddedToCart = true
		}

		se, ok := e.Search()
		if !ok || strings.TrimSpace(se.Query) == "" {
			continue
		}
		s.TotalSearches++
		uniqueQueries[strings.ToLower(se.Query)] = true
		if len(patternQueries) < patternDepth {
			patternQueries = append(patternQueries, se.OriginalQuery)
		}
	}

	s.UniqueQueries = len(uniqueQueries)
	s.Pattern = strings.Join(patternQueries, PatternSeparator)
	return s
}
