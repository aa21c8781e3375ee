package metrics

import (
	"math"
	"strings"

	"chat-insights-go/internal/types"
)

// slowThresholdMins splits responses into the averaged fast bucket and the
// counted slow bucket.
const slowThresholdMins = 4.0

// ResponseSummary aggregates the two latency tables into the master-sheet
// response metrics.
type ResponseSummary struct {
	AvgInitial          float64
	AvgNonInitial       float64
	CountSlowInitial    int
	CountSlowNonInitial int
}

// SummarizeResponses averages sub-threshold latencies and counts the rest,
// keeping only events whose sender label contains both the skill filter and
// the bot filter (case-insensitive).
func SummarizeResponses(first, subsequent []types.ResponseEvent, skillFilter, botFilter string) ResponseSummary {
	avgFirst, slowFirst := summarize(first, skillFilter, botFilter)
	avgSub, slowSub := summarize(subsequent, skillFilter, botFilter)
	return ResponseSummary{
		AvgInitial:          avgFirst,
		AvgNonInitial:       avgSub,
		CountSlowInitial:    slowFirst,
		CountSlowNonInitial: slowSub,
	}
}

func summarize(events []types.ResponseEvent, skillFilter, botFilter string) (avgFast float64, slowCount int) {
	sum := 0.0
	n := 0
	for _, e := range events {
		if !containsFold(e.Sender, skillFilter) || !containsFold(e.Sender, botFilter) {
			continue
		}
		if e.ResponseMins >= slowThresholdMins {
			slowCount++
			continue
		}
		sum += e.ResponseMins
		n++
	}
	if n == 0 {
		return 0, slowCount
	}
	return round2(sum / float64(n)), slowCount
}

// Row renders the summary as master-sheet columns.
func (s ResponseSummary) Row() map[string]float64 {
	return map[string]float64{
		"AVG initial":                   s.AvgInitial,
		"AVG non_initial":               s.AvgNonInitial,
		"Count of >=4 mins initial":     float64(s.CountSlowInitial),
		"Count of >=4 mins non_initial": float64(s.CountSlowNonInitial),
	}
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
