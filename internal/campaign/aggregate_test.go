package campaign

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sampleDataset mirrors the reference scenario:
// (2024-03-01, FB, Positive, Cairo, Image, 10)
// (2024-03-01, IG, Negative, Cairo, Video, 5)
// (2024-03-02, FB, Positive, Giza, Image, 20)
func sampleDataset() *Dataset {
	return &Dataset{Records: []Record{
		{Date: day(2024, 3, 1), Platform: "FB", Sentiment: "Positive", Location: "Cairo", MediaType: "Image", Engagements: 10},
		{Date: day(2024, 3, 1), Platform: "IG", Sentiment: "Negative", Location: "Cairo", MediaType: "Video", Engagements: 5},
		{Date: day(2024, 3, 2), Platform: "FB", Sentiment: "Positive", Location: "Giza", MediaType: "Image", Engagements: 20},
	}}
}

func TestSentimentBreakdown_CountsAndPercentages(t *testing.T) {
	out := SentimentBreakdown(sampleDataset())
	require.Len(t, out, 2)
	require.Equal(t, SentimentSlice{Sentiment: "Positive", Count: 2, Percentage: out[0].Percentage}, out[0])
	require.InDelta(t, 66.7, out[0].Percentage, 0.05)
	require.Equal(t, "Negative", out[1].Sentiment)
	require.Equal(t, 1, out[1].Count)
	require.InDelta(t, 33.3, out[1].Percentage, 0.05)

	// Counts conserve the row total; percentages sum to 100.
	var count int
	var pct float64
	for _, s := range out {
		count += s.Count
		pct += s.Percentage
	}
	require.Equal(t, 3, count)
	require.InDelta(t, 100.0, pct, 0.001)
}

func TestEngagementTrend_SumsPerDayAscending(t *testing.T) {
	out := EngagementTrend(sampleDataset())
	require.Equal(t, []TrendPoint{
		{Date: day(2024, 3, 1), Engagements: 15},
		{Date: day(2024, 3, 2), Engagements: 20},
	}, out)
}

func TestEngagementTrend_OffsetTimestampsShareTheCalendarDay(t *testing.T) {
	header := []string{"Date", "Platform", "Sentiment", "Location", "Engagements", "Media Type"}
	rows := [][]string{
		{"2024-03-01", "FB", "Positive", "Cairo", "5", "Image"},
		{"2024-03-01T10:00:00+02:00", "IG", "Neutral", "Giza", "10", "Video"},
		{"2024-03-01T01:00:00+05:30", "FB", "Positive", "Cairo", "7", "Text"},
	}
	ds, err := Normalize(header, rows)
	require.NoError(t, err)

	out := EngagementTrend(ds)
	require.Equal(t, []TrendPoint{{Date: day(2024, 3, 1), Engagements: 22}}, out)
}

func TestEngagementTrend_ExcludesNullDates(t *testing.T) {
	ds := sampleDataset()
	ds.Records = append(ds.Records, Record{Platform: "FB", Sentiment: "Neutral", Location: "Cairo", MediaType: "Text", Engagements: 100})

	out := EngagementTrend(ds)
	var total float64
	for _, p := range out {
		total += p.Engagements
	}
	require.Equal(t, 35.0, total)
}

func TestPlatformTotals_DescendingWithConservedSum(t *testing.T) {
	ds := sampleDataset()
	out := PlatformTotals(ds)
	require.Equal(t, []PlatformTotal{
		{Platform: "FB", Engagements: 30},
		{Platform: "IG", Engagements: 5},
	}, out)

	var total float64
	for _, p := range out {
		total += p.Engagements
	}
	require.Equal(t, ds.TotalEngagements(), total)
}

func TestTopLocations_SortedDescendingCappedAtFive(t *testing.T) {
	out := TopLocations(sampleDataset())
	require.Equal(t, []LocationTotal{
		{Location: "Giza", Engagements: 20},
		{Location: "Cairo", Engagements: 15},
	}, out)

	big := &Dataset{}
	for _, loc := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		big.Records = append(big.Records, Record{Location: loc, Engagements: float64(len(loc))})
	}
	capped := TopLocations(big)
	require.Len(t, capped, TopLocationLimit)
	for i := 1; i < len(capped); i++ {
		require.GreaterOrEqual(t, capped[i-1].Engagements, capped[i].Engagements)
	}
}

func TestAggregators_TiesBreakAlphabetically(t *testing.T) {
	ds := &Dataset{Records: []Record{
		{Platform: "Zeta", Location: "Zeta", Sentiment: "Zeta", MediaType: "Zeta", Engagements: 10},
		{Platform: "Alpha", Location: "Alpha", Sentiment: "Alpha", MediaType: "Alpha", Engagements: 10},
	}}
	require.Equal(t, "Alpha", PlatformTotals(ds)[0].Platform)
	require.Equal(t, "Alpha", TopLocations(ds)[0].Location)
	require.Equal(t, "Alpha", SentimentBreakdown(ds)[0].Sentiment)
	require.Equal(t, "Alpha", MediaTypeMix(ds)[0].MediaType)
}

func TestAggregators_EmptyDataset(t *testing.T) {
	empty := &Dataset{}
	require.Empty(t, SentimentBreakdown(empty))
	require.Empty(t, EngagementTrend(empty))
	require.Empty(t, PlatformTotals(empty))
	require.Empty(t, MediaTypeMix(empty))
	require.Empty(t, TopLocations(empty))
}

func TestMediaTypeMix_PercentagesSumTo100(t *testing.T) {
	out := MediaTypeMix(sampleDataset())
	require.Len(t, out, 2)
	require.Equal(t, "Image", out[0].MediaType)
	var pct float64
	for _, m := range out {
		pct += m.Percentage
	}
	require.InDelta(t, 100.0, pct, 0.001)
}

func TestFilter_Apply(t *testing.T) {
	ds := sampleDataset()

	fb := Filter{Platforms: []string{"fb"}}.Apply(ds)
	require.Equal(t, 2, fb.Len())

	ranged := Filter{DateFrom: day(2024, 3, 2), DateTo: day(2024, 3, 2)}.Apply(ds)
	require.Equal(t, 1, ranged.Len())
	require.Equal(t, "Giza", ranged.Records[0].Location)

	// Null-date rows are excluded by any date bound.
	withNull := sampleDataset()
	withNull.Records = append(withNull.Records, Record{Platform: "FB", Engagements: 99})
	bounded := Filter{DateFrom: day(2024, 1, 1)}.Apply(withNull)
	require.Equal(t, 3, bounded.Len())

	none := Filter{Sentiments: []string{"Neutral"}}.Apply(ds)
	require.Equal(t, 0, none.Len())
}
