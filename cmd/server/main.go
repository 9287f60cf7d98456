package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms/openai"

	"mediapulse/config"
	"mediapulse/internal/datasets"
	"mediapulse/internal/registry"
	"mediapulse/internal/runtime"
	"mediapulse/internal/security"
	"mediapulse/internal/telemetry"
	"mediapulse/pkg/version"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Best-effort .env loading for local development.
	_ = godotenv.Load()

	var (
		useStdio        bool
		shutdownTimeout time.Duration
	)

	flag.BoolVar(&useStdio, "stdio", false, "Run server over stdio transport")
	flag.DurationVar(&shutdownTimeout, "shutdown-timeout", 5*time.Second, "Graceful shutdown timeout")
	flag.Parse()

	logger := zlog.With().Str("service", "mediapulse-server").Logger()

	// Security: validate allow-list directories on startup (fail-safe on error)
	secMgr, err := security.NewManagerFromEnv()
	if err != nil {
		logger.Error().Err(err).Msg("security: failed to initialize manager from env")
		fmt.Fprintln(os.Stderr, "invalid security configuration; set MEDIAPULSE_ALLOWED_DIRS")
		os.Exit(1)
	}
	if err := secMgr.ValidateConfig(); err != nil {
		logger.Error().Err(err).Msg("security: invalid allow-list configuration")
		fmt.Fprintln(os.Stderr, "no allowed directories configured; set MEDIAPULSE_ALLOWED_DIRS")
		os.Exit(1)
	}
	logger.Info().Strs("allowed_dirs", secMgr.AllowedDirectories()).Msg("security allow-list configured")

	limits := runtime.NewLimits(config.DefaultMaxConcurrentRequests, config.DefaultMaxOpenDatasets)
	runtimeController := runtime.NewController(limits)
	runtimeMW := runtime.NewMiddleware(runtimeController)

	manager := datasets.NewManager(0, 0, runtimeController, nil).WithValidator(secMgr)
	manager.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := manager.Close(ctx); err != nil {
			logger.Error().Err(err).Msg("dataset manager shutdown")
		}
	}()

	toolRegistry := registry.New()

	// Optional AI backend: OpenAI-compatible client pointed at OpenRouter.
	modelName := os.Getenv("MEDIAPULSE_AI_MODEL")
	if modelName == "" {
		modelName = config.DefaultAIModel
	}
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		model, err := openai.New(
			openai.WithToken(key),
			openai.WithBaseURL(config.DefaultAIBaseURL),
			openai.WithModel(modelName),
		)
		if err != nil {
			logger.Error().Err(err).Msg("ai backend initialization failed; ai_insights disabled")
		} else {
			toolRegistry.WithModel(model)
			logger.Info().Str("model", modelName).Msg("ai backend configured")
		}
	}

	aiFilter := registry.NewAIToolFilterFromEnv()

	srv := server.NewMCPServer(
		"mediapulse analytics server",
		version.Version(),
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithHooks(telemetry.NewServerHooks(logger)),
		server.WithToolHandlerMiddleware(runtimeMW.ToolMiddleware),
		server.WithToolFilter(func(ctx context.Context, tools []mcp.Tool) []mcp.Tool { return aiFilter.FilterTools(ctx, tools) }),
	)

	registry.RegisterDatasetTools(srv, toolRegistry, limits, manager)
	registry.RegisterChartTools(srv, toolRegistry, manager)
	registry.RegisterAITools(srv, toolRegistry, manager, modelName)

	logger.Info().
		Str("version", version.Version()).
		Int("max_concurrent_requests", limits.MaxConcurrentRequests).
		Int("max_open_datasets", limits.MaxOpenDatasets).
		Bool("stdio", useStdio).
		Msg("server bootstrap configured")

	if useStdio {
		if err := server.ServeStdio(srv); err != nil {
			// Use stderr for transport errors so clients don't misinterpret output
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Fprintln(os.Stderr, "no transport selected; use --stdio to run over stdio")
	os.Exit(2)
}
