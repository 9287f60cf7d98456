package campaign

import (
	"strings"
	"time"
)

// Canonical column names after header normalization. Order matters: it is the
// order used for previews and descriptive summaries.
const (
	ColDate        = "date"
	ColPlatform    = "platform"
	ColSentiment   = "sentiment"
	ColLocation    = "location"
	ColEngagements = "engagements"
	ColMediaType   = "media_type"
)

// RequiredColumns lists the columns every dataset must carry post-normalization.
var RequiredColumns = []string{ColDate, ColPlatform, ColSentiment, ColLocation, ColEngagements, ColMediaType}

// Record is one normalized row of campaign data. A zero Date is the sentinel
// for an unparseable date cell; the row is retained either way.
type Record struct {
	Date        time.Time
	Platform    string
	Sentiment   string
	Location    string
	MediaType   string
	Engagements float64

	// Extra holds unrecognized columns untouched, keyed by normalized header.
	Extra map[string]string
}

// HasDate reports whether the record carries a parseable date.
func (r Record) HasDate() bool {
	return !r.Date.IsZero()
}

// Dataset is an ordered collection of normalized records sharing the canonical
// schema. Datasets are immutable after construction; filters return new views.
type Dataset struct {
	Records []Record

	// ExtraColumns preserves the normalized names of pass-through columns in
	// first-seen order.
	ExtraColumns []string
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// TotalEngagements sums the engagement counts across all records.
func (d *Dataset) TotalEngagements() float64 {
	var total float64
	for _, r := range d.Records {
		total += r.Engagements
	}
	return total
}

// Filter selects a subset of records prior to aggregation. Empty slices and
// zero times mean "no constraint" for that field. Category matching is
// case-insensitive after trimming.
type Filter struct {
	Platforms  []string
	Sentiments []string
	MediaTypes []string
	Locations  []string
	DateFrom   time.Time
	DateTo     time.Time
}

// IsZero reports whether the filter constrains nothing.
func (f Filter) IsZero() bool {
	return len(f.Platforms) == 0 && len(f.Sentiments) == 0 && len(f.MediaTypes) == 0 &&
		len(f.Locations) == 0 && f.DateFrom.IsZero() && f.DateTo.IsZero()
}

// Apply returns the records matching the filter, preserving input order.
// Records without a valid date are excluded by any date-range bound.
func (f Filter) Apply(d *Dataset) *Dataset {
	if d == nil {
		return &Dataset{}
	}
	if f.IsZero() {
		return d
	}
	out := &Dataset{ExtraColumns: d.ExtraColumns}
	for _, r := range d.Records {
		if !matchCategory(f.Platforms, r.Platform) {
			continue
		}
		if !matchCategory(f.Sentiments, r.Sentiment) {
			continue
		}
		if !matchCategory(f.MediaTypes, r.MediaType) {
			continue
		}
		if !matchCategory(f.Locations, r.Location) {
			continue
		}
		if !f.DateFrom.IsZero() || !f.DateTo.IsZero() {
			if !r.HasDate() {
				continue
			}
			if !f.DateFrom.IsZero() && r.Date.Before(f.DateFrom) {
				continue
			}
			if !f.DateTo.IsZero() && r.Date.After(f.DateTo) {
				continue
			}
		}
		out.Records = append(out.Records, r)
	}
	return out
}

func matchCategory(allowed []string, value string) bool {
	if len(allowed) == 0 {
		return true
	}
	v := strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimSpace(a)) == v {
			return true
		}
	}
	return false
}
