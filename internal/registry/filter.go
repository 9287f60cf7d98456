package registry

import (
	"context"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// AIToolFilter conditionally hides the external AI tools unless enabled.
// Enable by configuring OPENROUTER_API_KEY or setting MEDIAPULSE_ENABLE_AI=true.
type AIToolFilter struct {
	allowAI bool
}

// NewAIToolFilter constructs a filter with an explicit switch.
func NewAIToolFilter(allow bool) *AIToolFilter {
	return &AIToolFilter{allowAI: allow}
}

// NewAIToolFilterFromEnv enables AI tools when an API key is configured or
// the MEDIAPULSE_ENABLE_AI override is set.
func NewAIToolFilterFromEnv() *AIToolFilter {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("MEDIAPULSE_ENABLE_AI")))
	allow := v == "1" || v == "true" || v == "yes"
	if strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")) != "" {
		allow = true
	}
	return &AIToolFilter{allowAI: allow}
}

// FilterTools implements server tool filtering semantics. When AI is disabled,
// tools with the ai_ prefix are excluded from discovery.
func (f *AIToolFilter) FilterTools(ctx context.Context, tools []mcp.Tool) []mcp.Tool {
	if f.allowAI {
		return tools
	}
	out := make([]mcp.Tool, 0, len(tools))
	for _, t := range tools {
		if strings.HasPrefix(strings.ToLower(t.Name), "ai_") {
			continue
		}
		out = append(out, t)
	}
	return out
}
