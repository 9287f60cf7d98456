package campaign

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentimentInsights_Sentences(t *testing.T) {
	table := SentimentBreakdown(sampleDataset())
	out := SentimentInsights(table)
	require.Len(t, out, 3)
	require.Contains(t, out[0], "Positive")
	require.Contains(t, out[0], "66.7%")
	require.Contains(t, out[1], "66.7%")
	require.Contains(t, out[2], "33.3%")
}

func TestSentimentInsights_NonStandardLabels(t *testing.T) {
	// Absent Positive/Negative labels report 0.0% rather than failing.
	table := []SentimentSlice{{Sentiment: "Mixed", Count: 4, Percentage: 100}}
	out := SentimentInsights(table)
	require.Len(t, out, 3)
	require.Contains(t, out[0], "Mixed")
	require.Contains(t, out[1], "0.0%")
	require.Contains(t, out[2], "0.0%")
}

func TestTrendInsights_PeakLowAndMean(t *testing.T) {
	out := TrendInsights(EngagementTrend(sampleDataset()))
	require.Len(t, out, 3)
	require.Contains(t, out[0], "2024-03-02")
	require.Contains(t, out[0], "20")
	require.Contains(t, out[1], "2024-03-01")
	require.Contains(t, out[1], "15")
	require.Contains(t, out[2], "18") // mean of 15 and 20, rounded
}

func TestPlatformInsights_TopSecondAndTotal(t *testing.T) {
	out := PlatformInsights(PlatformTotals(sampleDataset()))
	require.Len(t, out, 3)
	require.Contains(t, out[0], "FB")
	require.Contains(t, out[0], "30")
	require.Contains(t, out[1], "IG")
	require.Contains(t, out[2], "35")
}

func TestPlatformInsights_SinglePlatformHasTwoSentences(t *testing.T) {
	out := PlatformInsights([]PlatformTotal{{Platform: "FB", Engagements: 30}})
	require.Len(t, out, 2)
}

func TestMediaInsights_RunnerUpOptional(t *testing.T) {
	full := MediaInsights(MediaTypeMix(sampleDataset()))
	require.Len(t, full, 3)
	require.Contains(t, full[0], "Image")
	require.Contains(t, full[0], "66.7%")

	single := MediaInsights([]MediaShare{{MediaType: "Video", Count: 2, Percentage: 100}})
	require.Len(t, single, 2)
	require.Contains(t, single[1], "Video")
}

func TestLocationInsights_Sentences(t *testing.T) {
	out := LocationInsights(TopLocations(sampleDataset()))
	require.Len(t, out, 3)
	require.Contains(t, out[0], "Giza")
	require.Contains(t, out[1], "Cairo")
	require.Contains(t, out[2], "top 5 locations")
}

func TestInsights_EmptyTablesReturnNoData(t *testing.T) {
	for _, sentences := range [][]string{
		SentimentInsights(nil),
		TrendInsights(nil),
		PlatformInsights(nil),
		MediaInsights(nil),
		LocationInsights(nil),
	} {
		require.Len(t, sentences, 1)
		require.Contains(t, sentences[0], "No ")
	}
}

func TestInsights_Deterministic(t *testing.T) {
	table := PlatformTotals(sampleDataset())
	require.Equal(t, PlatformInsights(table), PlatformInsights(table))
}

func TestInsights_ThousandsSeparators(t *testing.T) {
	out := PlatformInsights([]PlatformTotal{{Platform: "FB", Engagements: 1234567}})
	require.Contains(t, out[0], "1,234,567")
}

func TestDescribe_IncludesCoreStats(t *testing.T) {
	text := Describe(sampleDataset())
	require.Contains(t, text, "rows: 3")
	require.Contains(t, text, "total=35")
	require.Contains(t, text, "FB=2")
	require.Contains(t, text, "2024-03-01 to 2024-03-02")

	prompt := BuildPrompt(sampleDataset())
	require.Contains(t, prompt, "Generate 3 key insights")
}
