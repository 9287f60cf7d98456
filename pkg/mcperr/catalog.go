package mcperr

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Code defines a canonical MCP error code used across tools.
type Code string

const (
	// Validation & Input
	Validation    Code = "VALIDATION"
	InvalidHandle Code = "INVALID_HANDLE"
	SchemaInvalid Code = "SCHEMA_INVALID"
	CursorInvalid Code = "CURSOR_INVALID"

	// Resource & Limits
	BusyResource    Code = "BUSY_RESOURCE"
	Timeout         Code = "TIMEOUT"
	LimitExceeded   Code = "LIMIT_EXCEEDED"
	PayloadTooLarge Code = "PAYLOAD_TOO_LARGE"
	FileTooLarge    Code = "FILE_TOO_LARGE"

	// IO & Formats
	OpenFailed        Code = "OPEN_FAILED"
	PreviewFailed     Code = "PREVIEW_FAILED"
	UnsupportedFormat Code = "UNSUPPORTED_FORMAT"
	NotFound          Code = "NOT_FOUND"
	PermissionDenied  Code = "PERMISSION_DENIED"

	// Analysis & Insights
	AnalysisFailed Code = "ANALYSIS_FAILED"
	EmptyResult    Code = "EMPTY_RESULT"
	BackendFailed  Code = "BACKEND_FAILED"
)

// Entry documents a code's standard message, retry semantics, and next steps.
type Entry struct {
	Code      Code
	Message   string
	Retryable bool
	NextSteps []string
}

// catalog maps canonical codes to guidance. Messages can be overridden per error.
var catalog = map[Code]Entry{
	Validation:    {Code: Validation, Message: "invalid inputs", Retryable: true, NextSteps: []string{"Correct the inputs per schema and retry", "See examples in tool description"}},
	InvalidHandle: {Code: InvalidHandle, Message: "dataset handle not found or expired", Retryable: true, NextSteps: []string{"Reopen the dataset via open_dataset and retry"}},
	SchemaInvalid: {Code: SchemaInvalid, Message: "required columns missing from uploaded table", Retryable: false, NextSteps: []string{"Ensure the file carries Date, Platform, Sentiment, Location, Engagements, Media Type", "Column names are case- and spacing-insensitive"}},
	CursorInvalid: {Code: CursorInvalid, Message: "cursor is invalid for current context", Retryable: true, NextSteps: []string{"Restart pagination from the first page"}},

	BusyResource:    {Code: BusyResource, Message: "concurrent request limit reached", Retryable: true, NextSteps: []string{"Retry after a short delay"}},
	Timeout:         {Code: Timeout, Message: "operation exceeded configured time limit", Retryable: true, NextSteps: []string{"Narrow filters or reduce rows and retry"}},
	LimitExceeded:   {Code: LimitExceeded, Message: "operation exceeded configured limits", Retryable: true, NextSteps: []string{"Reduce page size or apply filters"}},
	PayloadTooLarge: {Code: PayloadTooLarge, Message: "payload exceeds configured size", Retryable: true, NextSteps: []string{"Reduce preview rows or split into pages"}},
	FileTooLarge:    {Code: FileTooLarge, Message: "file exceeds configured size", Retryable: false, NextSteps: []string{"Upload a smaller extract or raise the limit"}},

	OpenFailed:        {Code: OpenFailed, Message: "failed to open dataset", Retryable: true, NextSteps: []string{"Verify path, permissions, and format"}},
	PreviewFailed:     {Code: PreviewFailed, Message: "failed to generate preview", Retryable: true, NextSteps: []string{"Retry with fewer rows"}},
	UnsupportedFormat: {Code: UnsupportedFormat, Message: "unsupported file format", Retryable: false, NextSteps: []string{"Provide a .csv or .xlsx file"}},
	NotFound:          {Code: NotFound, Message: "file not found", Retryable: false, NextSteps: []string{"Check the path and allowed directories"}},
	PermissionDenied:  {Code: PermissionDenied, Message: "path outside allowed directories", Retryable: false, NextSteps: []string{"Place the file under an allowed directory (MEDIAPULSE_ALLOWED_DIRS)"}},

	AnalysisFailed: {Code: AnalysisFailed, Message: "analysis failed", Retryable: true, NextSteps: []string{"Verify filters and retry"}},
	EmptyResult:    {Code: EmptyResult, Message: "no rows match the current filters", Retryable: true, NextSteps: []string{"Relax or remove filters"}},
	BackendFailed:  {Code: BackendFailed, Message: "external insight backend call failed", Retryable: true, NextSteps: []string{"Check OPENROUTER_API_KEY and network, then retry", "The rest of the dashboard is unaffected"}},
}

// normalize builds a standard error string including next steps for MCP
// clients that surface only a message string. Format: "CODE: message"
// followed by a guidance tail.
func normalize(code Code, msg string) string {
	base := strings.TrimSpace(msg)
	e, ok := catalog[code]
	if !ok {
		if base == "" {
			return string(code)
		}
		return fmt.Sprintf("%s: %s", string(code), base)
	}
	if base == "" {
		base = e.Message
	}
	guidance := ""
	if len(e.NextSteps) > 0 {
		guidance = " | nextSteps: " + strings.Join(e.NextSteps, "; ")
	}
	return fmt.Sprintf("%s: %s%s", e.Code, base, guidance)
}

// New returns an MCP error result for a given code and optional message override.
func New(code Code, message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(normalize(code, message))
}

// Wrapf formats details and returns an MCP error result for the code.
func Wrapf(code Code, format string, args ...any) *mcp.CallToolResult {
	return mcp.NewToolResultError(normalize(code, fmt.Sprintf(format, args...)))
}
