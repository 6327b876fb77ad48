package scoring

import (
	"sort"

	"clarity/internal/core"
)

// DefaultTopCategories is the number of named segments in a breakdown
// before the tail collapses into "Other".
const DefaultTopCategories = 5

// OtherSegmentName labels the synthetic tail segment.
const OtherSegmentName = "Other"

// segmentPalette is cycled by rank index for named segments. The
// "Other" segment always uses the reserved otherColor slot no matter
// how many named segments precede it.
var segmentPalette = []string{
	"#4F8EF7", // blue
	"#34C77B", // green
	"#F7B84F", // amber
	"#EF6461", // red
	"#9B7EDE", // purple
	"#49BEB7", // teal
}

const otherColor = "#9CA3AF" // gray, reserved

// Segment is one slice of a category breakdown.
type Segment struct {
	Name   string     `json:"name"`
	Amount core.Money `json:"amount"`
	Color  string     `json:"color"`
}

// Breakdown is a ranked per-category expense summary. The segment
// amounts always sum to Total.
type Breakdown struct {
	Total    core.Money `json:"total"`
	Segments []Segment  `json:"segments"`
}

// CategoryBreakdown buckets expenses by their exact category label,
// ranks buckets by total descending, keeps the top N as named segments,
// and collapses the remainder into a trailing "Other" segment (omitted
// when zero). Amounts are taken as absolute values. Equal totals keep
// first-encountered order. topN <= 0 selects DefaultTopCategories.
func CategoryBreakdown(expenses []core.Transaction, topN int) Breakdown {
	if topN <= 0 {
		topN = DefaultTopCategories
	}

	totals := make(map[string]int64)
	var order []string
	var grand int64
	for _, t := range expenses {
		amt := t.Amount.Abs().Cents
		if _, seen := totals[t.Category]; !seen {
			order = append(order, t.Category)
		}
		totals[t.Category] += amt
		grand += amt
	}

	// Stable sort keeps first-encountered order for equal totals.
	sort.SliceStable(order, func(i, j int) bool {
		return totals[order[i]] > totals[order[j]]
	})

	var segments []Segment
	var otherTotal int64
	for rank, name := range order {
		if rank < topN {
			segments = append(segments, Segment{
				Name:   name,
				Amount: core.Money{Cents: totals[name]},
				Color:  segmentPalette[rank%len(segmentPalette)],
			})
			continue
		}
		otherTotal += totals[name]
	}
	if otherTotal > 0 {
		segments = append(segments, Segment{
			Name:   OtherSegmentName,
			Amount: core.Money{Cents: otherTotal},
			Color:  otherColor,
		})
	}

	return Breakdown{
		Total:    core.Money{Cents: grand},
		Segments: segments,
	}
}
