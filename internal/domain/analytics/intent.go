package analytics

import (
	"regexp"
	"strings"
)

// Intent classifies the user goal behind a search query.
type Intent string

const (
	IntentResearch        Intent = "research"
	IntentComparison      Intent = "comparison"
	IntentPriceChecking   Intent = "price_checking"
	IntentSpecificProduct Intent = "specific_product"
)

// Confidence grades how strongly the matched signals support the intent.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// IntentResult is the classification outcome for one query. It is a pure
// function of the query text: identical input yields identical output.
type IntentResult struct {
	Intent     Intent     `json:"intent"`
	Confidence Confidence `json:"confidence"`
	Keywords   []string   `json:"keywords"`
}

var (
	comparisonPatterns = compileAll(
		`\bvs\b`,
		`\bversus\b`,
		`\bcompare\b`,
		`\bcomparison\b`,
		`difference between`,
		`better than`,
	)

	pricePatterns = compileAll(
		`\bbudget\b`,
		`\bcheap(?:est)?\b`,
		`\bprice\b`,
		`\bdeals?\b`,
		`\bcost\b`,
		`\baffordable\b`,
		`\bdiscount\b`,
		`under \$?\d+`,
	)

	researchPatterns = compileAll(
		`\bbest\b`,
		`\breviews?\b`,
		`\bguide\b`,
		`\bbenchmarks?\b`,
		`\btutorial\b`,
		`\bhow to\b`,
		`\btop \d+\b`,
		`\brecommend(?:ed|ations?)?\b`,
	)

	specificPatterns = compileAll(
		`\b[a-z]+[-\s]?\d{3,}[a-z\d]*\b`,          // model numbers: rtx 3070, wh-1000xm4
		`\b\d+\s?(?:gb|tb|mm|ghz|mhz|hz|in(?:ch)?|w)\b`, // capacities and spec units
		`\b(?:gen\s?\d+|mk\s?\d+|v\d+|series\s?\d+|\d+(?:st|nd|rd|th)\s?gen)\b`,
		`\b(?:i[3579]|ryzen\s?\d|m[123])\b`, // cpu family tokens
	)

	digitToken = regexp.MustCompile(`\d`)
)

// intentRule is one step of the classification pipeline. Rules are
// evaluated strictly in order; the first rule that fires wins, so the
// slice below is the authoritative priority order.
type intentRule struct {
	Name string
	Eval func(q string) (IntentResult, bool)
}

// classificationRules returns the ordered rule pipeline:
//
//  1. comparison: any comparison pattern short-circuits with high confidence
//  2. majority: strictly more price signals than research signals (or the
//     reverse) decides the intent; >=2 matches upgrades to high confidence
//  3. specific: evaluated only when price and research tie. With no
//     price/research signal at all, one specific match suffices; with weak
//     tied signals, >=2 specific matches still override at medium.
//     A nonzero tie with fewer than two specific matches deliberately
//     falls through to the default (known classification gap, kept for
//     report compatibility).
//  4. default: specific_product at low confidence, keywords from the
//     first two digit-bearing tokens
func classificationRules() []intentRule {
	return []intentRule{
		{Name: "comparison", Eval: evalComparison},
		{Name: "majority", Eval: evalMajority},
		{Name: "specific", Eval: evalSpecific},
		{Name: "default", Eval: evalDefault},
	}
}

// ClassifyIntent classifies a free-text search query. Deterministic and
// stateless; safe for concurrent use.
func ClassifyIntent(query string) IntentResult {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, rule := range classificationRules() {
		if result, ok := rule.Eval(q); ok {
			return result
		}
	}
	// The default rule always fires; this is unreachable.
	return IntentResult{Intent: IntentSpecificProduct, Confidence: ConfidenceLow, Keywords: []string{}}
}

func evalComparison(q string) (IntentResult, bool) {
	keywords := matchKeywords(comparisonPatterns, q)
	if len(keywords) == 0 {
		return IntentResult{}, false
	}
	return IntentResult{Intent: IntentComparison, Confidence: ConfidenceHigh, Keywords: keywords}, true
}

func evalMajority(q string) (IntentResult, bool) {
	priceKeywords := matchKeywords(pricePatterns, q)
	researchKeywords := matchKeywords(researchPatterns, q)

	switch {
	case len(priceKeywords) > len(researchKeywords):
		return IntentResult{
			Intent:     IntentPriceChecking,
			Confidence: confidenceForMatches(len(priceKeywords)),
			Keywords:   priceKeywords,
		}, true
	case len(researchKeywords) > len(priceKeywords):
		return IntentResult{
			Intent:     IntentResearch,
			Confidence: confidenceForMatches(len(researchKeywords)),
			Keywords:   researchKeywords,
		}, true
	}
	return IntentResult{}, false
}

func evalSpecific(q string) (IntentResult, bool) {
	specificKeywords := matchKeywords(specificPatterns, q)
	if len(specificKeywords) == 0 {
		return IntentResult{}, false
	}

	priceMatches := len(matchKeywords(pricePatterns, q))
	researchMatches := len(matchKeywords(researchPatterns, q))

	if priceMatches == 0 && researchMatches == 0 {
		return IntentResult{
			Intent:     IntentSpecificProduct,
			Confidence: confidenceForMatches(len(specificKeywords)),
			Keywords:   specificKeywords,
		}, true
	}
	if len(specificKeywords) >= 2 {
		// Specific signals override weak tied ambiguity, but only at medium.
		return IntentResult{
			Intent:     IntentSpecificProduct,
			Confidence: ConfidenceMedium,
			Keywords:   specificKeywords,
		}, true
	}
	return IntentResult{}, false
}

func evalDefault(q string) (IntentResult, bool) {
	keywords := []string{}
	for _, token := range strings.Fields(q) {
		if digitToken.MatchString(token) {
			keywords = append(keywords, token)
			if len(keywords) == 2 {
				break
			}
		}
	}
	return IntentResult{Intent: IntentSpecificProduct, Confidence: ConfidenceLow, Keywords: keywords}, true
}

func confidenceForMatches(matches int) Confidence {
	if matches >= 2 {
		return ConfidenceHigh
	}
	return ConfidenceMedium
}

// matchKeywords returns the first matched substring of each pattern that
// fires, deduplicated, preserving pattern order.
func matchKeywords(patterns []*regexp.Regexp, q string) []string {
	var keywords []string
	seen := make(map[string]bool)
	for _, p := range patterns {
		if m := p.FindString(q); m != "" && !seen[m] {
			seen[m] = true
			keywords = append(keywords, m)
		}
	}
	return keywords
}

func compileAll(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		patterns[i] = regexp.MustCompile(expr)
	}
	return patterns
}
