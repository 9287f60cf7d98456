package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mediapulse/internal/campaign"
)

func chartDataset() *campaign.Dataset {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	return &campaign.Dataset{Records: []campaign.Record{
		{Date: day(1), Platform: "FB", Sentiment: "Positive", Location: "Cairo", MediaType: "Image", Engagements: 10},
		{Date: day(1), Platform: "IG", Sentiment: "Negative", Location: "Cairo", MediaType: "Video", Engagements: 5},
		{Date: day(2), Platform: "FB", Sentiment: "Positive", Location: "Giza", MediaType: "Image", Engagements: 20},
	}}
}

func TestApplyFilters_Categories(t *testing.T) {
	out, err := applyFilters(chartDataset(), FilterParams{Platforms: []string{"FB"}})
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())
}

func TestApplyFilters_DateBounds(t *testing.T) {
	out, err := applyFilters(chartDataset(), FilterParams{DateFrom: "2024-03-02", DateTo: "2024-03-02"})
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	require.Equal(t, "Giza", out.Records[0].Location)
}

func TestApplyFilters_BadDateRejected(t *testing.T) {
	_, err := applyFilters(chartDataset(), FilterParams{DateFrom: "03/02/2024"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "VALIDATION")
}

func TestApplyFilters_EmptySelectionYieldsEmptyTables(t *testing.T) {
	out, err := applyFilters(chartDataset(), FilterParams{Sentiments: []string{"Neutral"}})
	require.NoError(t, err)
	require.Equal(t, 0, out.Len())

	// Downstream, empty selections produce empty tables and no-data insights,
	// never a panic.
	require.Empty(t, campaign.PlatformTotals(out))
	sentences := campaign.PlatformInsights(campaign.PlatformTotals(out))
	require.Len(t, sentences, 1)
}
