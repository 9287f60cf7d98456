package registry

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tmc/langchaingo/llms"

	"mediapulse/config"
	"mediapulse/internal/campaign"
	"mediapulse/internal/datasets"
	"mediapulse/pkg/mcperr"
	"mediapulse/pkg/validation"
)

// AIInsightsInput requests free-text insights for a loaded dataset.
type AIInsightsInput struct {
	DatasetID string `json:"dataset_id" validate:"required" jsonschema_description:"Dataset handle ID from open_dataset"`
	FilterParams
}

// AIInsightsOutput carries the backend's response verbatim.
type AIInsightsOutput struct {
	DatasetID string `json:"dataset_id"`
	Model     string `json:"model" jsonschema_description:"Backend model that produced the text"`
	Prompt    string `json:"prompt" jsonschema_description:"Statistics prompt sent to the backend"`
	Insights  string `json:"insights" jsonschema_description:"Opaque display text from the backend"`
}

// RegisterAITools wires the optional ai_insights tool. The backend response
// has no schema contract; it is displayed verbatim, and failures degrade to a
// BACKEND_FAILED tool error without affecting the rest of the surface.
func RegisterAITools(s *server.MCPServer, reg *Registry, mgr *datasets.Manager, modelName string) {
	tool := mcp.NewTool(
		"ai_insights",
		mcp.WithDescription("Send descriptive statistics of the (filtered) dataset to the configured text-generation backend and return its response verbatim. The deterministic chart tools do not depend on this call; backend errors surface as BACKEND_FAILED and nothing else breaks. Requires OPENROUTER_API_KEY."),
		mcp.WithInputSchema[AIInsightsInput](),
		mcp.WithOutputSchema[AIInsightsOutput](),
	)
	s.AddTool(tool, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in AIInsightsInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		model := reg.Model()
		if model == nil {
			return mcperr.New(mcperr.BackendFailed, "no AI backend configured"), nil
		}
		ds, ok := mgr.Get(in.DatasetID)
		if !ok {
			return mcperr.New(mcperr.InvalidHandle, ""), nil
		}
		filtered, err := applyFilters(ds, in.FilterParams)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if filtered.Len() == 0 {
			return mcperr.New(mcperr.EmptyResult, ""), nil
		}

		prompt := campaign.BuildPrompt(filtered)
		callCtx, cancel := context.WithTimeout(ctx, config.DefaultBackendTimeout)
		defer cancel()
		text, err := llms.GenerateFromSinglePrompt(callCtx, model, prompt)
		if err != nil {
			return mcperr.New(mcperr.BackendFailed, err.Error()), nil
		}

		out := AIInsightsOutput{DatasetID: in.DatasetID, Model: modelName, Prompt: prompt, Insights: text}
		summary := fmt.Sprintf("model=%s rows=%d", modelName, filtered.Len())
		res := mcp.NewToolResultStructured(out, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(text)}
		return res, nil
	}))
	reg.Register(tool)
}
