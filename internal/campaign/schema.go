package campaign

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// SchemaError reports required columns missing from an uploaded table after
// header normalization. It aborts the load; there is no per-row recovery from
// a structurally wrong file.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("campaign: missing required columns: %s", strings.Join(e.Missing, ", "))
}

// NormalizeHeader canonicalizes one column name: trim, lower-case, spaces to
// underscores, periods removed. "Media Type" and " media.type " both map to
// "media_type".
func NormalizeHeader(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ".", "")
	return s
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02 15:04:05",
	"02-Jan-2006",
}

// ParseDate parses a calendar date using a tolerant layout list. The result is
// canonicalized to UTC midnight of the wall-clock date, so timestamped values
// with an offset bucket to the same calendar day as plain dates. The zero time
// and false signal an unparseable value; callers keep the row regardless.
func ParseDate(s string) (time.Time, bool) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, v); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// ParseEngagements coerces an engagement cell to a numeric count. Commas and
// currency-style formatting are stripped; missing or unparseable values and
// negatives collapse to 0.
func ParseEngagements(s string) float64 {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ',', '$', ' ':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	if clean == "" {
		return 0
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// Normalize builds a Dataset from a raw header row and data rows, applying the
// canonical schema: header renaming, date coercion with a null sentinel, and
// engagement defaulting to 0. Unknown columns pass through into Record.Extra.
// Returns *SchemaError when any required column is absent after renaming.
func Normalize(header []string, rows [][]string) (*Dataset, error) {
	index := make(map[string]int, len(header))
	var extras []string
	for i, h := range header {
		name := NormalizeHeader(h)
		if name == "" {
			continue
		}
		if _, dup := index[name]; dup {
			continue
		}
		index[name] = i
		if !isRequired(name) {
			extras = append(extras, name)
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &SchemaError{Missing: missing}
	}

	ds := &Dataset{ExtraColumns: extras}
	ds.Records = make([]Record, 0, len(rows))
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		rec := Record{
			Platform:  strings.TrimSpace(cellAt(row, index[ColPlatform])),
			Sentiment: strings.TrimSpace(cellAt(row, index[ColSentiment])),
			Location:  strings.TrimSpace(cellAt(row, index[ColLocation])),
			MediaType: strings.TrimSpace(cellAt(row, index[ColMediaType])),
		}
		if t, ok := ParseDate(cellAt(row, index[ColDate])); ok {
			rec.Date = t
		}
		rec.Engagements = ParseEngagements(cellAt(row, index[ColEngagements]))
		for _, name := range extras {
			if v := cellAt(row, index[name]); v != "" {
				if rec.Extra == nil {
					rec.Extra = make(map[string]string, len(extras))
				}
				rec.Extra[name] = v
			}
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

func isRequired(name string) bool {
	for _, col := range RequiredColumns {
		if name == col {
			return true
		}
	}
	return false
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
