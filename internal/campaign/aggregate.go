package campaign

import (
	"sort"
	"time"
)

// TopLocationLimit caps the top-locations chart, mirroring the dashboard's
// "Top 5 Locations" panel.
const TopLocationLimit = 5

// SentimentSlice is one wedge of the sentiment pie.
type SentimentSlice struct {
	Sentiment  string  `json:"sentiment"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TrendPoint is one day on the engagement trend line.
type TrendPoint struct {
	Date        time.Time `json:"date"`
	Engagements float64   `json:"engagements"`
}

// PlatformTotal is one bar of the per-platform engagement chart.
type PlatformTotal struct {
	Platform    string  `json:"platform"`
	Engagements float64 `json:"engagements"`
}

// MediaShare is one wedge of the media-type pie.
type MediaShare struct {
	MediaType  string  `json:"media_type"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// LocationTotal is one bar of the top-locations chart.
type LocationTotal struct {
	Location    string  `json:"location"`
	Engagements float64 `json:"engagements"`
}

// Each aggregator is a pure Dataset reduction. Empty input yields an empty
// summary; percentages guard the zero-total case. Ties in any ordering break
// alphabetically ascending on the category label so output is deterministic
// across runs.

// SentimentBreakdown counts records per sentiment label with share-of-total
// percentages, ordered by count descending.
func SentimentBreakdown(d *Dataset) []SentimentSlice {
	counts, order := countBy(d, func(r Record) string { return r.Sentiment })
	total := d.Len()
	out := make([]SentimentSlice, 0, len(order))
	for _, k := range order {
		s := SentimentSlice{Sentiment: k, Count: counts[k]}
		if total > 0 {
			s.Percentage = float64(counts[k]) / float64(total) * 100
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Sentiment < out[j].Sentiment
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// EngagementTrend sums engagements per calendar day, ascending by date.
// Records without a valid date carry no position on the time axis and are
// excluded from this chart only.
func EngagementTrend(d *Dataset) []TrendPoint {
	if d.Len() == 0 {
		return nil
	}
	sums := map[time.Time]float64{}
	for _, r := range d.Records {
		if !r.HasDate() {
			continue
		}
		// Dates are canonical UTC midnights after ParseDate, so the value
		// itself is the day key.
		sums[r.Date] += r.Engagements
	}
	out := make([]TrendPoint, 0, len(sums))
	for day, v := range sums {
		out = append(out, TrendPoint{Date: day, Engagements: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// PlatformTotals sums engagements per platform, descending by total.
func PlatformTotals(d *Dataset) []PlatformTotal {
	sums, order := sumBy(d, func(r Record) string { return r.Platform })
	out := make([]PlatformTotal, 0, len(order))
	for _, k := range order {
		out = append(out, PlatformTotal{Platform: k, Engagements: sums[k]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Engagements == out[j].Engagements {
			return out[i].Platform < out[j].Platform
		}
		return out[i].Engagements > out[j].Engagements
	})
	return out
}

// MediaTypeMix counts records per media type with share-of-total percentages,
// ordered by count descending.
func MediaTypeMix(d *Dataset) []MediaShare {
	counts, order := countBy(d, func(r Record) string { return r.MediaType })
	total := d.Len()
	out := make([]MediaShare, 0, len(order))
	for _, k := range order {
		m := MediaShare{MediaType: k, Count: counts[k]}
		if total > 0 {
			m.Percentage = float64(counts[k]) / float64(total) * 100
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].MediaType < out[j].MediaType
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// TopLocations sums engagements per location, descending, capped at
// TopLocationLimit rows.
func TopLocations(d *Dataset) []LocationTotal {
	sums, order := sumBy(d, func(r Record) string { return r.Location })
	out := make([]LocationTotal, 0, len(order))
	for _, k := range order {
		out = append(out, LocationTotal{Location: k, Engagements: sums[k]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Engagements == out[j].Engagements {
			return out[i].Location < out[j].Location
		}
		return out[i].Engagements > out[j].Engagements
	})
	if len(out) > TopLocationLimit {
		out = out[:TopLocationLimit]
	}
	return out
}

// countBy tallies rows per key, recording first-seen key order. Empty labels
// group under "(empty)" so no row is dropped from the roll-up.
func countBy(d *Dataset, key func(Record) string) (map[string]int, []string) {
	counts := map[string]int{}
	var order []string
	for _, r := range d.Records {
		k := key(r)
		if k == "" {
			k = "(empty)"
		}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}
	return counts, order
}

func sumBy(d *Dataset, key func(Record) string) (map[string]float64, []string) {
	sums := map[string]float64{}
	var order []string
	for _, r := range d.Records {
		k := key(r)
		if k == "" {
			k = "(empty)"
		}
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		sums[k] += r.Engagements
	}
	return sums, order
}
