package analytics

import (
	"sort"
	"strings"
)

// Behavior labels a session's overall search behavior. The values are part
// of the report surface and rendered verbatim by dashboards.
type Behavior string

const (
	BehaviorConverted        Behavior = "Converted"
	BehaviorAddedToCart      Behavior = "Added to Cart"
	BehaviorNarrowing        Behavior = "Narrowing Search"
	BehaviorBroadening       Behavior = "Broadening Search"
	BehaviorSingleSearch     Behavior = "Single Search"
	BehaviorExploring        Behavior = "Exploring Options"
	BehaviorRepeatedSearches Behavior = "Repeated Searches"
)

// Terminal outcome nodes of the flow graph.
const (
	FlowNodeCheckout = "Checkout"
	FlowNodeCart     = "Cart"
	FlowNodeExit     = "Exit"
)

const (
	topPatterns  = 10
	topFlowEdges = 50

	// Result counts growing by more than this factor between consecutive
	// searches signal a broadening step.
	broadeningGrowthFactor = 1.5
)

// PatternStat is one session pattern with its frequency and how often
// sessions following it converted.
type PatternStat struct {
	Pattern        string  `json:"pattern"`
	Count          int     `json:"count"`
	ConversionRate float64 `json:"conversionRate"`
}

// FlowEdge is one weighted transition of the flow graph.
type FlowEdge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Weight int    `json:"weight"`
}

// FlowReport is the full output of the flow analyzer.
type FlowReport struct {
	CommonPatterns     []PatternStat    `json:"commonPatterns"`
	TopConversionPaths []PatternStat    `json:"topConversionPaths"`
	Behaviors          map[Behavior]int `json:"behaviors"`
	Graph              []FlowEdge       `json:"graph"`
}

// behaviorRule is one step of the behavior classification pipeline. Rules
// run strictly in order; the first predicate that holds names the session.
type behaviorRule struct {
	Behavior Behavior
	Matches  func(s *Session, searches []SearchEvent) bool
}

func behaviorRules() []behaviorRule {
	return []behaviorRule{
		{BehaviorConverted, func(s *Session, _ []SearchEvent) bool { return s.Converted }},
		{BehaviorAddedToCart, func(s *Session, _ []SearchEvent) bool { return s.AddedToCart }},
		{BehaviorNarrowing, func(_ *Session, searches []SearchEvent) bool { return isNarrowing(searches) }},
		{BehaviorBroadening, func(_ *Session, searches []SearchEvent) bool { return isBroadening(searches) }},
		{BehaviorSingleSearch, func(s *Session, _ []SearchEvent) bool { return s.TotalSearches == 1 }},
		{BehaviorExploring, func(s *Session, _ []SearchEvent) bool {
			return s.UniqueQueries == s.TotalSearches
		}},
		{BehaviorRepeatedSearches, func(_ *Session, _ []SearchEvent) bool { return true }},
	}
}

// ClassifyBehavior names a session's behavior. Conversion outcomes outrank
// refinement signals: a converted session is "Converted" even when its
// search sequence also narrows.
func ClassifyBehavior(s *Session) Behavior {
	searches := SearchEvents(s.Events)
	for _, rule := range behaviorRules() {
		if rule.Matches(s, searches) {
			return rule.Behavior
		}
	}
	return BehaviorRepeatedSearches
}

// isNarrowing reports whether a search sequence refines toward a target.
// Each consecutive pair contributes one signal per matching condition: the
// later query contains the earlier one, grows longer, or returns fewer
// results. A pair can therefore signal up to three times, and the session
// qualifies when total signals reach the search count.
func isNarrowing(searches []SearchEvent) bool {
	signals := 0
	for i := 1; i < len(searches); i++ {
		prev, cur := &searches[i-1], &searches[i]
		prevQ := NormalizeKey(prev.Query)
		curQ := NormalizeKey(cur.Query)
		if strings.Contains(curQ, prevQ) {
			signals++
		}
		if len(curQ) > len(prevQ) {
			signals++
		}
		if cur.ResultsCount < prev.ResultsCount {
			signals++
		}
	}
	return len(searches) > 0 && signals >= len(searches)
}

// isBroadening mirrors isNarrowing for widening sequences: a later query
// that is shorter, or whose result count grew by more than 1.5x, each
// contribute a signal.
func isBroadening(searches []SearchEvent) bool {
	signals := 0
	for i := 1; i < len(searches); i++ {
		prev, cur := &searches[i-1], &searches[i]
		if len(NormalizeKey(cur.Query)) < len(NormalizeKey(prev.Query)) {
			signals++
		}
		if float64(cur.ResultsCount) > float64(prev.ResultsCount)*broadeningGrowthFactor {
			signals++
		}
	}
	return len(searches) > 0 && signals >= len(searches)
}

// BuildFlowReport analyzes reconstructed sessions into pattern frequencies,
// behavior tallies, and the capped flow graph.
func BuildFlowReport(sessions []Session) FlowReport {
	report := FlowReport{
		CommonPatterns:     commonPatterns(sessions),
		TopConversionPaths: topConversionPaths(sessions),
		Behaviors:          make(map[Behavior]int),
		Graph:              BuildFlowGraph(sessions),
	}
	for i := range sessions {
		report.Behaviors[ClassifyBehavior(&sessions[i])]++
	}
	return report
}

func commonPatterns(sessions []Session) []PatternStat {
	counts := make(map[string]int)
	converted := make(map[string]int)
	for i := range sessions {
		p := sessions[i].Pattern
		if p == "" {
			continue
		}
		counts[p]++
		if sessions[i].Converted {
			converted[p]++
		}
	}

	stats := make([]PatternStat, 0, len(counts))
	for p, n := range counts {
		stats = append(stats, PatternStat{
			Pattern:        p,
			Count:          n,
			ConversionRate: percentage(converted[p], n),
		})
	}
	return topPatternStats(stats)
}

func topConversionPaths(sessions []Session) []PatternStat {
	counts := make(map[string]int)
	for i := range sessions {
		if sessions[i].Converted && sessions[i].Pattern != "" {
			counts[sessions[i].Pattern]++
		}
	}

	stats := make([]PatternStat, 0, len(counts))
	for p, n := range counts {
		stats = append(stats, PatternStat{Pattern: p, Count: n, ConversionRate: 100})
	}
	return topPatternStats(stats)
}

func topPatternStats(stats []PatternStat) []PatternStat {
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Pattern < stats[j].Pattern
	})
	if len(stats) > topPatterns {
		stats = stats[:topPatterns]
	}
	return stats
}

// BuildFlowGraph builds the directed query-transition graph. Nodes are the
// distinct query strings of each session plus the three terminal outcome
// nodes; every session contributes an edge per consecutive query pair and a
// final edge from its last query to Checkout, Cart, or Exit. Only the 50
// heaviest edges are returned so the graph stays renderable.
func BuildFlowGraph(sessions []Session) []FlowEdge {
	type edgeKey struct{ from, to string }
	weights := make(map[edgeKey]int)

	for i := range sessions {
		s := &sessions[i]
		searches := SearchEvents(s.Events)
		if len(searches) == 0 {
			continue
		}
		for j := 1; j < len(searches); j++ {
			from := NormalizeKey(searches[j-1].Query)
			to := NormalizeKey(searches[j].Query)
			if from == "" || to == "" {
				continue
			}
			weights[edgeKey{from, to}]++
		}

		terminal := FlowNodeExit
		switch {
		case s.Converted:
			terminal = FlowNodeCheckout
		case s.AddedToCart:
			terminal = FlowNodeCart
		}
		last := NormalizeKey(searches[len(searches)-1].Query)
		if last != "" {
			weights[edgeKey{last, terminal}]++
		}
	}

	edges := make([]FlowEdge, 0, len(weights))
	for k, w := range weights {
		edges = append(edges, FlowEdge{From: k.from, To: k.to, Weight: w})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Weight != edges[j].Weight {
			return edges[i].Weight > edges[j].Weight
		}
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	if len(edges) > topFlowEdges {
		edges = edges[:topFlowEdges]
	}
	return edges
}
