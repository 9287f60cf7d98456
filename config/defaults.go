package config

import "time"

// Default runtime limits and guardrails for the mediapulse analytics server.
// Conservative values; override via environment or flags in cmd/server.

const (
	// Concurrency
	DefaultMaxConcurrentRequests = 10
	DefaultMaxOpenDatasets       = 8

	// Payload and row limits
	DefaultMaxPayloadBytes = 128 * 1024       // 128KB tool result budget
	DefaultMaxDatasetBytes = 32 * 1024 * 1024 // 32MB upload ceiling
	DefaultMaxRowsPerOp    = 50_000
	DefaultPreviewRowLimit = 10
)

const (
	// Dataset handle lifecycle
	DefaultDatasetIdleTTL       = 30 * time.Minute
	DefaultDatasetCleanupPeriod = time.Minute

	// Timeouts
	DefaultOperationTimeout      = 30 * time.Second
	DefaultAcquireRequestTimeout = 2 * time.Second
	DefaultBackendTimeout        = 60 * time.Second
)

// DefaultAIModel is the OpenRouter model used by the ai_insights tool when no
// override is configured.
const DefaultAIModel = "meta-llama/llama-3.3-8b-instruct:free"

// DefaultAIBaseURL points the OpenAI-compatible client at OpenRouter.
const DefaultAIBaseURL = "https://openrouter.ai/api/v1"
