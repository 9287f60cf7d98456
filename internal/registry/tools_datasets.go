package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mediapulse/internal/campaign"
	"mediapulse/internal/datasets"
	"mediapulse/internal/runtime"
	"mediapulse/internal/security"
	"mediapulse/pkg/mcperr"
	"mediapulse/pkg/pagination"
	"mediapulse/pkg/validation"
)

// --- Input / Output schemas (typed for discovery) ---

// OpenDatasetInput defines parameters for loading a campaign dataset.
type OpenDatasetInput struct {
	Path string `json:"path" validate:"required,datafile_ext" jsonschema_description:"Path to a CSV or XLSX file inside an allowed directory"`
}

// OpenDatasetOutput documents the response fields for open_dataset.
type OpenDatasetOutput struct {
	DatasetID       string   `json:"dataset_id" jsonschema_description:"Server-assigned dataset handle ID"`
	Path            string   `json:"path" jsonschema_description:"Canonical path of the loaded file"`
	Rows            int      `json:"rows" jsonschema_description:"Number of normalized records"`
	Columns         []string `json:"columns" jsonschema_description:"Canonical column names"`
	ExtraColumns    []string `json:"extra_columns,omitempty" jsonschema_description:"Pass-through columns preserved from the upload"`
	PreviewRowLimit int      `json:"previewRowLimit" jsonschema_description:"Default row limit for previews"`
}

// CloseDatasetInput defines parameters for releasing a dataset handle.
type CloseDatasetInput struct {
	DatasetID string `json:"dataset_id" validate:"required" jsonschema_description:"Dataset handle ID to close"`
}

// CloseDatasetOutput acknowledges handle release.
type CloseDatasetOutput struct {
	Success bool `json:"success" jsonschema_description:"True when the handle was closed"`
}

// DescribeDatasetInput defines parameters for descriptive statistics.
type DescribeDatasetInput struct {
	DatasetID string `json:"dataset_id" validate:"required" jsonschema_description:"Dataset handle ID"`
	FilterParams
}

// DescribeDatasetOutput carries the descriptive-statistics text block.
type DescribeDatasetOutput struct {
	DatasetID string `json:"dataset_id"`
	Rows      int    `json:"rows"`
	Summary   string `json:"summary" jsonschema_description:"Descriptive statistics of the (filtered) dataset"`
}

// PreviewDatasetInput defines parameters for row previews. A cursor resumes a
// previous page and takes precedence over dataset_id/rows.
type PreviewDatasetInput struct {
	DatasetID string `json:"dataset_id,omitempty" validate:"required_without=Cursor" jsonschema_description:"Dataset handle ID (or supply cursor)"`
	Rows      int    `json:"rows,omitempty" validate:"omitempty,min=1,max=1000" jsonschema_description:"Max rows per page (bounded)"`
	Cursor    string `json:"cursor,omitempty" validate:"omitempty,cursor" jsonschema_description:"Opaque cursor from a previous page"`
}

// PageMeta captures paging/truncation metadata.
type PageMeta struct {
	Total      int    `json:"total"`
	Returned   int    `json:"returned"`
	Truncated  bool   `json:"truncated"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// PreviewDatasetOutput returns one page of normalized rows.
type PreviewDatasetOutput struct {
	DatasetID string     `json:"dataset_id"`
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	Meta      PageMeta   `json:"meta"`
}

// RegisterDatasetTools wires the dataset lifecycle tools.
func RegisterDatasetTools(s *server.MCPServer, reg *Registry, limits runtime.Limits, mgr *datasets.Manager) {
	// open_dataset
	openTool := mcp.NewTool(
		"open_dataset",
		mcp.WithDescription("Load a campaign CSV or XLSX file, normalize its schema, and return a dataset handle ID. Column names are canonicalized (trimmed, lower-cased, spaces to underscores, periods removed); unparseable dates become null sentinels and missing engagement counts become 0, with rows retained either way. Fails with SCHEMA_INVALID when any required column (Date, Platform, Sentiment, Location, Engagements, Media Type) is absent. Paths are restricted to the configured allow-list."),
		mcp.WithInputSchema[OpenDatasetInput](),
		mcp.WithOutputSchema[OpenDatasetOutput](),
	)
	s.AddTool(openTool, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in OpenDatasetInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		id, canonical, err := mgr.Open(ctx, in.Path)
		if err != nil {
			return openErrorResult(err), nil
		}
		ds, _ := mgr.Get(id)
		out := OpenDatasetOutput{
			DatasetID:       id,
			Path:            canonical,
			Rows:            ds.Len(),
			Columns:         campaign.RequiredColumns,
			ExtraColumns:    ds.ExtraColumns,
			PreviewRowLimit: limits.PreviewRowLimit,
		}
		summary := fmt.Sprintf("dataset_id=%s rows=%d", id, out.Rows)
		res := mcp.NewToolResultStructured(out, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return res, nil
	}))
	reg.Register(openTool)

	// close_dataset
	closeTool := mcp.NewTool(
		"close_dataset",
		mcp.WithDescription("Release a previously opened dataset handle and free its slot."),
		mcp.WithInputSchema[CloseDatasetInput](),
		mcp.WithOutputSchema[CloseDatasetOutput](),
	)
	s.AddTool(closeTool, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in CloseDatasetInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		if err := mgr.CloseHandle(ctx, in.DatasetID); err != nil {
			return mcperr.New(mcperr.InvalidHandle, ""), nil
		}
		res := mcp.NewToolResultStructured(CloseDatasetOutput{Success: true}, "closed")
		res.Content = []mcp.Content{mcp.NewTextContent("closed")}
		return res, nil
	}))
	reg.Register(closeTool)

	// describe_dataset
	describeTool := mcp.NewTool(
		"describe_dataset",
		mcp.WithDescription("Return descriptive statistics for a loaded dataset: row count, engagement distribution, per-category tallies, and date coverage. Accepts the same optional filters as the chart tools. This is the summary block the ai_insights tool sends to the text-generation backend."),
		mcp.WithInputSchema[DescribeDatasetInput](),
		mcp.WithOutputSchema[DescribeDatasetOutput](),
	)
	s.AddTool(describeTool, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in DescribeDatasetInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		ds, ok := mgr.Get(in.DatasetID)
		if !ok {
			return mcperr.New(mcperr.InvalidHandle, ""), nil
		}
		filtered, err := applyFilters(ds, in.FilterParams)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out := DescribeDatasetOutput{DatasetID: in.DatasetID, Rows: filtered.Len(), Summary: campaign.Describe(filtered)}
		summary := fmt.Sprintf("rows=%d", out.Rows)
		res := mcp.NewToolResultStructured(out, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(out.Summary)}
		return res, nil
	}))
	reg.Register(describeTool)

	// preview_dataset
	previewTool := mcp.NewTool(
		"preview_dataset",
		mcp.WithDescription("Return a bounded page of normalized rows with cursor pagination. Cursor takes precedence over dataset_id and rows; restart from the first page when the cursor is rejected."),
		mcp.WithInputSchema[PreviewDatasetInput](),
		mcp.WithOutputSchema[PreviewDatasetOutput](),
	)
	s.AddTool(previewTool, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in PreviewDatasetInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		id := in.DatasetID
		offset := 0
		pageSize := in.Rows
		if strings.TrimSpace(in.Cursor) != "" {
			cur, err := pagination.DecodeCursor(in.Cursor)
			if err != nil {
				return mcperr.New(mcperr.CursorInvalid, ""), nil
			}
			id, offset, pageSize = cur.Did, cur.Off, cur.Ps
		}
		if pageSize <= 0 || pageSize > limits.PreviewRowLimit*10 {
			pageSize = limits.PreviewRowLimit
		}
		ds, ok := mgr.Get(id)
		if !ok {
			return mcperr.New(mcperr.InvalidHandle, ""), nil
		}

		out := PreviewDatasetOutput{DatasetID: id, Columns: previewColumns(ds)}
		total := ds.Len()
		end := offset + pageSize
		if end > total {
			end = total
		}
		for i := offset; i < end; i++ {
			out.Rows = append(out.Rows, previewRow(ds, ds.Records[i]))
		}
		out.Meta = PageMeta{Total: total, Returned: len(out.Rows), Truncated: end < total}
		if end < total {
			token, err := pagination.EncodeCursor(pagination.Cursor{Did: id, Off: pagination.NextOffset(offset, len(out.Rows)), Ps: pageSize})
			if err != nil {
				return mcperr.New(mcperr.PreviewFailed, "failed to encode next page cursor"), nil
			}
			out.Meta.NextCursor = token
		}
		summary := fmt.Sprintf("rows=%d/%d truncated=%v", out.Meta.Returned, out.Meta.Total, out.Meta.Truncated)
		res := mcp.NewToolResultStructured(out, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return res, nil
	}))
	reg.Register(previewTool)
}

func previewColumns(ds *campaign.Dataset) []string {
	return append(append([]string{}, campaign.RequiredColumns...), ds.ExtraColumns...)
}

func previewRow(ds *campaign.Dataset, r campaign.Record) []string {
	date := ""
	if r.HasDate() {
		date = r.Date.Format("2006-01-02")
	}
	row := []string{date, r.Platform, r.Sentiment, r.Location, fmt.Sprintf("%.0f", r.Engagements), r.MediaType}
	for _, col := range ds.ExtraColumns {
		row = append(row, r.Extra[col])
	}
	return row
}

// openErrorResult maps load failures onto catalog codes.
func openErrorResult(err error) *mcp.CallToolResult {
	var serr *campaign.SchemaError
	switch {
	case errors.As(err, &serr):
		return mcperr.Wrapf(mcperr.SchemaInvalid, "missing columns: %s", strings.Join(serr.Missing, ", "))
	case errors.Is(err, security.ErrNotAllowed):
		return mcperr.New(mcperr.PermissionDenied, "")
	case errors.Is(err, security.ErrUnsupportedExtension), errors.Is(err, datasets.ErrUnsupportedFormat):
		return mcperr.New(mcperr.UnsupportedFormat, "")
	case errors.Is(err, security.ErrNotFound):
		return mcperr.New(mcperr.NotFound, "")
	case errors.Is(err, datasets.ErrFileTooLarge):
		return mcperr.New(mcperr.FileTooLarge, err.Error())
	default:
		return mcperr.New(mcperr.OpenFailed, err.Error())
	}
}
