package registry

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"
)

func TestAIToolFilter_HidesAIToolsWhenDisabled(t *testing.T) {
	tools := []mcp.Tool{
		{Name: "open_dataset"},
		{Name: "ai_insights"},
		{Name: "sentiment_breakdown"},
	}

	hidden := NewAIToolFilter(false).FilterTools(context.Background(), tools)
	require.Len(t, hidden, 2)
	for _, tool := range hidden {
		require.NotEqual(t, "ai_insights", tool.Name)
	}

	shown := NewAIToolFilter(true).FilterTools(context.Background(), tools)
	require.Len(t, shown, 3)
}

func TestRegistry_ToolsSortedAndModelHeld(t *testing.T) {
	reg := New()
	reg.Register(mcp.Tool{Name: "top_locations"})
	reg.Register(mcp.Tool{Name: "open_dataset"})

	tools, err := reg.Tools(context.Background())
	require.NoError(t, err)
	require.Equal(t, "open_dataset", tools[0].Name)
	require.Equal(t, "top_locations", tools[1].Name)

	_, ok := reg.Get("open_dataset")
	require.True(t, ok)
	require.Nil(t, reg.Model())
}
