package registry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mediapulse/internal/campaign"
	"mediapulse/internal/datasets"
	"mediapulse/pkg/mcperr"
	"mediapulse/pkg/validation"
)

// FilterParams is the shared filter surface accepted by every chart tool.
// Category matching is case-insensitive; date bounds exclude rows whose date
// failed to parse.
type FilterParams struct {
	Platforms  []string `json:"platforms,omitempty" jsonschema_description:"Keep only these platforms"`
	Sentiments []string `json:"sentiments,omitempty" jsonschema_description:"Keep only these sentiment labels"`
	MediaTypes []string `json:"media_types,omitempty" jsonschema_description:"Keep only these media types"`
	Locations  []string `json:"locations,omitempty" jsonschema_description:"Keep only these locations"`
	DateFrom   string   `json:"date_from,omitempty" validate:"omitempty,isodate" jsonschema_description:"Inclusive start date (YYYY-MM-DD)"`
	DateTo     string   `json:"date_to,omitempty" validate:"omitempty,isodate" jsonschema_description:"Inclusive end date (YYYY-MM-DD)"`
}

// applyFilters converts wire-level filter params and applies them.
func applyFilters(ds *campaign.Dataset, p FilterParams) (*campaign.Dataset, error) {
	f := campaign.Filter{
		Platforms:  p.Platforms,
		Sentiments: p.Sentiments,
		MediaTypes: p.MediaTypes,
		Locations:  p.Locations,
	}
	if s := strings.TrimSpace(p.DateFrom); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, fmt.Errorf("VALIDATION: date_from must be a calendar date like 2024-03-01")
		}
		f.DateFrom = t
	}
	if s := strings.TrimSpace(p.DateTo); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, fmt.Errorf("VALIDATION: date_to must be a calendar date like 2024-03-01")
		}
		f.DateTo = t
	}
	return f.Apply(ds), nil
}

// ChartInput is the shared request shape for the five chart tools.
type ChartInput struct {
	DatasetID string `json:"dataset_id" validate:"required" jsonschema_description:"Dataset handle ID from open_dataset"`
	FilterParams
}

// ChartMeta reports how many records fed the aggregation.
type ChartMeta struct {
	TotalRows    int  `json:"total_rows"`
	FilteredRows int  `json:"filtered_rows"`
	Empty        bool `json:"empty"`
}

// SentimentBreakdownOutput pairs the sentiment summary table with insights.
type SentimentBreakdownOutput struct {
	DatasetID string                    `json:"dataset_id"`
	Table     []campaign.SentimentSlice `json:"table"`
	Insights  []string                  `json:"insights"`
	Meta      ChartMeta                 `json:"meta"`
}

// EngagementTrendOutput pairs the daily trend table with insights.
type EngagementTrendOutput struct {
	DatasetID string                `json:"dataset_id"`
	Table     []campaign.TrendPoint `json:"table"`
	Insights  []string              `json:"insights"`
	Meta      ChartMeta             `json:"meta"`
}

// PlatformEngagementsOutput pairs per-platform totals with insights.
type PlatformEngagementsOutput struct {
	DatasetID string                   `json:"dataset_id"`
	Table     []campaign.PlatformTotal `json:"table"`
	Insights  []string                 `json:"insights"`
	Meta      ChartMeta                `json:"meta"`
}

// MediaTypeMixOutput pairs the media-type summary with insights.
type MediaTypeMixOutput struct {
	DatasetID string                `json:"dataset_id"`
	Table     []campaign.MediaShare `json:"table"`
	Insights  []string              `json:"insights"`
	Meta      ChartMeta             `json:"meta"`
}

// TopLocationsOutput pairs the top-5 location totals with insights.
type TopLocationsOutput struct {
	DatasetID string                   `json:"dataset_id"`
	Table     []campaign.LocationTotal `json:"table"`
	Insights  []string                 `json:"insights"`
	Meta      ChartMeta                `json:"meta"`
}

// RegisterChartTools wires the five chart summary tools. Each one resolves the
// handle, applies the optional filters, runs its aggregator, and attaches the
// templated insight sentences. Empty filter results return empty tables and an
// explicit no-data sentence set rather than an error.
func RegisterChartTools(s *server.MCPServer, reg *Registry, mgr *datasets.Manager) {
	resolve := func(in ChartInput) (*campaign.Dataset, *campaign.Dataset, *mcp.CallToolResult) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return nil, nil, mcp.NewToolResultError(msg)
		}
		ds, ok := mgr.Get(in.DatasetID)
		if !ok {
			return nil, nil, mcperr.New(mcperr.InvalidHandle, "")
		}
		filtered, err := applyFilters(ds, in.FilterParams)
		if err != nil {
			return nil, nil, mcp.NewToolResultError(err.Error())
		}
		return ds, filtered, nil
	}

	meta := func(ds, filtered *campaign.Dataset) ChartMeta {
		return ChartMeta{TotalRows: ds.Len(), FilteredRows: filtered.Len(), Empty: filtered.Len() == 0}
	}

	structured := func(out any, summary string, insights []string) *mcp.CallToolResult {
		res := mcp.NewToolResultStructured(out, summary)
		text := summary
		if len(insights) > 0 {
			text = summary + "\n- " + strings.Join(insights, "\n- ")
		}
		res.Content = []mcp.Content{mcp.NewTextContent(text)}
		return res
	}

	// sentiment_breakdown
	sb := mcp.NewTool(
		"sentiment_breakdown",
		mcp.WithDescription("Count records per sentiment label with share-of-total percentages, ordered by count descending, plus templated insight sentences (plurality label, positive share, negative share). Accepts optional platform/sentiment/media-type/location/date filters applied before aggregation."),
		mcp.WithInputSchema[ChartInput](),
		mcp.WithOutputSchema[SentimentBreakdownOutput](),
	)
	s.AddTool(sb, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in ChartInput) (*mcp.CallToolResult, error) {
		ds, filtered, errRes := resolve(in)
		if errRes != nil {
			return errRes, nil
		}
		table := campaign.SentimentBreakdown(filtered)
		out := SentimentBreakdownOutput{DatasetID: in.DatasetID, Table: table, Insights: campaign.SentimentInsights(table), Meta: meta(ds, filtered)}
		summary := fmt.Sprintf("sentiments=%d rows=%d", len(table), filtered.Len())
		return structured(out, summary, out.Insights), nil
	}))
	reg.Register(sb)

	// engagement_trend
	et := mcp.NewTool(
		"engagement_trend",
		mcp.WithDescription("Sum engagements per calendar day, ascending by date, plus insight sentences naming the peak day, the lowest day, and the daily mean. Rows without a parseable date are excluded from this chart only. Accepts the shared filters."),
		mcp.WithInputSchema[ChartInput](),
		mcp.WithOutputSchema[EngagementTrendOutput](),
	)
	s.AddTool(et, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in ChartInput) (*mcp.CallToolResult, error) {
		ds, filtered, errRes := resolve(in)
		if errRes != nil {
			return errRes, nil
		}
		table := campaign.EngagementTrend(filtered)
		out := EngagementTrendOutput{DatasetID: in.DatasetID, Table: table, Insights: campaign.TrendInsights(table), Meta: meta(ds, filtered)}
		summary := fmt.Sprintf("days=%d rows=%d", len(table), filtered.Len())
		return structured(out, summary, out.Insights), nil
	}))
	reg.Register(et)

	// platform_engagements
	pe := mcp.NewTool(
		"platform_engagements",
		mcp.WithDescription("Sum engagements per platform, descending by total (alphabetical on ties), plus insight sentences for the dominant platform, the runner-up when present, and the grand total. Accepts the shared filters."),
		mcp.WithInputSchema[ChartInput](),
		mcp.WithOutputSchema[PlatformEngagementsOutput](),
	)
	s.AddTool(pe, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in ChartInput) (*mcp.CallToolResult, error) {
		ds, filtered, errRes := resolve(in)
		if errRes != nil {
			return errRes, nil
		}
		table := campaign.PlatformTotals(filtered)
		out := PlatformEngagementsOutput{DatasetID: in.DatasetID, Table: table, Insights: campaign.PlatformInsights(table), Meta: meta(ds, filtered)}
		summary := fmt.Sprintf("platforms=%d rows=%d", len(table), filtered.Len())
		return structured(out, summary, out.Insights), nil
	}))
	reg.Register(pe)

	// media_type_mix
	mm := mcp.NewTool(
		"media_type_mix",
		mcp.WithDescription("Count records per media type with share-of-total percentages, ordered by count descending, plus insight sentences for the leading type and the runner-up when present. Accepts the shared filters."),
		mcp.WithInputSchema[ChartInput](),
		mcp.WithOutputSchema[MediaTypeMixOutput](),
	)
	s.AddTool(mm, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in ChartInput) (*mcp.CallToolResult, error) {
		ds, filtered, errRes := resolve(in)
		if errRes != nil {
			return errRes, nil
		}
		table := campaign.MediaTypeMix(filtered)
		out := MediaTypeMixOutput{DatasetID: in.DatasetID, Table: table, Insights: campaign.MediaInsights(table), Meta: meta(ds, filtered)}
		summary := fmt.Sprintf("media_types=%d rows=%d", len(table), filtered.Len())
		return structured(out, summary, out.Insights), nil
	}))
	reg.Register(mm)

	// top_locations
	tl := mcp.NewTool(
		"top_locations",
		mcp.WithDescription("Sum engagements per location and return the top 5, descending (alphabetical on ties), plus insight sentences for the leading locations. Accepts the shared filters."),
		mcp.WithInputSchema[ChartInput](),
		mcp.WithOutputSchema[TopLocationsOutput](),
	)
	s.AddTool(tl, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in ChartInput) (*mcp.CallToolResult, error) {
		ds, filtered, errRes := resolve(in)
		if errRes != nil {
			return errRes, nil
		}
		table := campaign.TopLocations(filtered)
		out := TopLocationsOutput{DatasetID: in.DatasetID, Table: table, Insights: campaign.LocationInsights(table), Meta: meta(ds, filtered)}
		summary := fmt.Sprintf("locations=%d rows=%d", len(table), filtered.Len())
		return structured(out, summary, out.Insights), nil
	}))
	reg.Register(tl)

}
