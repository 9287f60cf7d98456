package campaign

import (
	"fmt"
	"strings"
)

// Describe renders a compact descriptive-statistics block for a dataset:
// row count, engagement distribution, distinct category counts, and date
// coverage. It seeds the free-text prompt sent to the external AI backend.
func Describe(d *Dataset) string {
	var b strings.Builder
	fmt.Fprintf(&b, "rows: %d\n", d.Len())

	var total, minV, maxV float64
	var withDate int
	first := true
	for _, r := range d.Records {
		total += r.Engagements
		if first || r.Engagements < minV {
			minV = r.Engagements
		}
		if first || r.Engagements > maxV {
			maxV = r.Engagements
		}
		first = false
		if r.HasDate() {
			withDate++
		}
	}
	if d.Len() > 0 {
		mean := total / float64(d.Len())
		fmt.Fprintf(&b, "engagements: total=%.0f mean=%.1f min=%.0f max=%.0f\n", total, mean, minV, maxV)
	} else {
		b.WriteString("engagements: total=0\n")
	}

	fmt.Fprintf(&b, "platforms: %s\n", categoryLine(d, func(r Record) string { return r.Platform }))
	fmt.Fprintf(&b, "sentiments: %s\n", categoryLine(d, func(r Record) string { return r.Sentiment }))
	fmt.Fprintf(&b, "media_types: %s\n", categoryLine(d, func(r Record) string { return r.MediaType }))
	fmt.Fprintf(&b, "locations: %d distinct\n", distinct(d, func(r Record) string { return r.Location }))

	if trend := EngagementTrend(d); len(trend) > 0 {
		fmt.Fprintf(&b, "date range: %s to %s (%d rows dated)\n",
			trend[0].Date.Format("2006-01-02"),
			trend[len(trend)-1].Date.Format("2006-01-02"),
			withDate)
	}
	return b.String()
}

// BuildPrompt wraps the descriptive statistics in the instruction sent to the
// text-generation backend.
func BuildPrompt(d *Dataset) string {
	return "Generate 3 key insights from this media campaign data:\n" + Describe(d)
}

func categoryLine(d *Dataset, key func(Record) string) string {
	counts, order := countBy(d, key)
	parts := make([]string, 0, len(order))
	for _, k := range order {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, " ")
}

func distinct(d *Dataset, key func(Record) string) int {
	_, order := countBy(d, key)
	return len(order)
}
