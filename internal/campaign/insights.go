package campaign

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Insight generation: each chart kind has its own summary type, so dispatch is
// by function rather than by a runtime tag. Every function is deterministic
// over its input and returns 1-3 sentences; an empty summary yields a single
// explicit no-data sentence instead of touching the first row.

func noData(subject string) []string {
	return []string{fmt.Sprintf("No %s data available for the current selection.", subject)}
}

func formatCount(v float64) string {
	return humanize.Commaf(float64(int64(v + 0.5)))
}

// SentimentInsights describes the sentiment pie: the plurality label, then the
// Positive and Negative shares (0.0% when the label is absent).
func SentimentInsights(table []SentimentSlice) []string {
	if len(table) == 0 {
		return noData("sentiment")
	}
	var positive, negative float64
	for _, s := range table {
		switch s.Sentiment {
		case "Positive":
			positive += s.Percentage
		case "Negative":
			negative += s.Percentage
		}
	}
	top := table[0]
	return []string{
		fmt.Sprintf("A majority of the sentiment is %s (%.1f%%).", top.Sentiment, top.Percentage),
		fmt.Sprintf("Approximately %.1f%% of the mentions are positive, indicating a generally favorable perception.", positive),
		fmt.Sprintf("Negative sentiment accounts for %.1f%%, which might indicate areas for improvement or concerns.", negative),
	}
}

// TrendInsights describes the engagement trend line: peak day, lowest day, and
// the mean across all days in the table.
func TrendInsights(table []TrendPoint) []string {
	if len(table) == 0 {
		return noData("engagement trend")
	}
	peak, low := table[0], table[0]
	var total float64
	for _, p := range table {
		if p.Engagements > peak.Engagements {
			peak = p
		}
		if p.Engagements < low.Engagements {
			low = p
		}
		total += p.Engagements
	}
	avg := total / float64(len(table))
	return []string{
		fmt.Sprintf("Peak engagement occurred on %s with %s engagements.", peak.Date.Format("2006-01-02"), formatCount(peak.Engagements)),
		fmt.Sprintf("The lowest engagement was observed on %s with %s engagements.", low.Date.Format("2006-01-02"), formatCount(low.Engagements)),
		fmt.Sprintf("The average daily engagement over the period is approximately %s.", formatCount(avg)),
	}
}

// PlatformInsights describes the per-platform bar chart: the top platform, the
// runner-up when one exists, and the grand total.
func PlatformInsights(table []PlatformTotal) []string {
	if len(table) == 0 {
		return noData("platform")
	}
	var total float64
	for _, p := range table {
		total += p.Engagements
	}
	out := []string{
		fmt.Sprintf("%s is the dominant platform, contributing %s engagements.", table[0].Platform, formatCount(table[0].Engagements)),
	}
	if len(table) > 1 {
		out = append(out, fmt.Sprintf("%s is the second most engaging platform with %s engagements.", table[1].Platform, formatCount(table[1].Engagements)))
	}
	out = append(out, fmt.Sprintf("These platforms collectively generated %s engagements, highlighting their importance in the campaign's reach.", formatCount(total)))
	return out
}

// MediaInsights describes the media-type pie: the leading type and, when one
// exists, the runner-up, closing with a content-strategy sentence.
func MediaInsights(table []MediaShare) []string {
	if len(table) == 0 {
		return noData("media type")
	}
	out := []string{
		fmt.Sprintf("%s is the most prevalent media type, accounting for %.1f%% of the content.", table[0].MediaType, table[0].Percentage),
	}
	if len(table) > 1 {
		out = append(out, fmt.Sprintf("%s is the second most used media type, making up %.1f%% of the content.", table[1].MediaType, table[1].Percentage))
	}
	out = append(out, fmt.Sprintf("The mix of media types indicates a diverse content strategy, with a strong reliance on %s.", table[0].MediaType))
	return out
}

// LocationInsights describes the top-locations bar chart.
func LocationInsights(table []LocationTotal) []string {
	if len(table) == 0 {
		return noData("location")
	}
	out := []string{
		fmt.Sprintf("%s is the top location for engagements, with %s engagements.", table[0].Location, formatCount(table[0].Engagements)),
	}
	if len(table) > 1 {
		out = append(out, fmt.Sprintf("%s follows with %s engagements, suggesting a strong presence in these regions.", table[1].Location, formatCount(table[1].Engagements)))
	}
	out = append(out, "The top 5 locations collectively represent a significant portion of the total campaign reach and engagement.")
	return out
}
