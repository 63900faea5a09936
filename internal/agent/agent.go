package agent

import (
	"context"
	"fmt"
	"os"

	"charm.land/fantasy"
	"charm.land/fantasy/providers/anthropic"
)

const (
	defaultModel        = "claude-haiku-4-5"
	defaultSystemPrompt = "You are Professor Oak, a pokemon research authority. You have access to tools that can run read-only SQL against the pokemon database, inspect its schema, look up pokemon details, manage a trainer's party, and answer natural language questions through the translation pipeline. Use these tools when appropriate to provide accurate, data-backed answers. Answer in the same language the trainer uses."
)

// AgentConfig holds the configuration for creating a research agent
type AgentConfig struct {
	apiKey       string
	model        string
	systemPrompt string
	dataDir      string
	initStore    InitStoreFunc
	initAnalyst  InitAnalystFunc
}

// AgentOption is a functional option for configuring the agent
type AgentOption func(*AgentConfig) error

// WithAPIKey sets the Anthropic API key
func WithAPIKey(apiKey string) AgentOption {
	return func(c *AgentConfig) error {
		if apiKey == "" {
			return fmt.Errorf("API key cannot be empty")
		}
		c.apiKey = apiKey
		return nil
	}
}

// WithAPIKeyFromEnv sets the API key from the ANTHROPIC_API_KEY environment variable
func WithAPIKeyFromEnv() AgentOption {
	return func(c *AgentConfig) error {
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
		c.apiKey = apiKey
		return nil
	}
}

// WithModel sets the Claude model to use (default: claude-haiku-4-5)
func WithModel(model string) AgentOption {
	return func(c *AgentConfig) error {
		if model == "" {
			return fmt.Errorf("model cannot be empty")
		}
		c.model = model
		return nil
	}
}

// WithSystemPrompt sets a custom system prompt
func WithSystemPrompt(prompt string) AgentOption {
	return func(c *AgentConfig) error {
		c.systemPrompt = prompt
		return nil
	}
}

// WithDataDir sets the data directory for database operations
func WithDataDir(dataDir string) AgentOption {
	return func(c *AgentConfig) error {
		c.dataDir = dataDir
		return nil
	}
}

// WithStoreInitializer sets the database initialization function
func WithStoreInitializer(initStore InitStoreFunc) AgentOption {
	return func(c *AgentConfig) error {
		c.initStore = initStore
		return nil
	}
}

// WithAnalystInitializer sets the pipeline initialization function
func WithAnalystInitializer(initAnalyst InitAnalystFunc) AgentOption {
	return func(c *AgentConfig) error {
		c.initAnalyst = initAnalyst
		return nil
	}
}

// NewResearchAgent creates a Fantasy agent configured for answering pokemon
// questions with database tools. It uses the Options pattern for flexible
// configuration.
func NewResearchAgent(opts ...AgentOption) (fantasy.Agent, error) {
	// Initialize config with defaults
	config := &AgentConfig{
		model:        defaultModel,
		systemPrompt: defaultSystemPrompt,
		dataDir:      "data/",
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	// Validate required fields
	if config.apiKey == "" {
		return nil, fmt.Errorf("API key is required (use WithAPIKey or WithAPIKeyFromEnv)")
	}
	if config.initStore == nil {
		return nil, fmt.Errorf("database initializer is required (use WithStoreInitializer)")
	}
	if config.initAnalyst == nil {
		return nil, fmt.Errorf("analyst initializer is required (use WithAnalystInitializer)")
	}

	// Create Fantasy provider for Anthropic
	provider, err := anthropic.New(anthropic.WithAPIKey(config.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic provider: %w", err)
	}

	ctx := context.Background()

	// Create language model
	model, err := provider.LanguageModel(ctx, config.model)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Claude model: %w", err)
	}

	// Create tools backed by the injected initializers
	agentTools := CreateTools(config.dataDir, config.initStore, config.initAnalyst)

	// Create and return the agent
	agent := fantasy.NewAgent(
		model,
		fantasy.WithSystemPrompt(config.systemPrompt),
		fantasy.WithTools(agentTools...),
	)

	return agent, nil
}

// GenerateResponse is a convenience function that creates an agent and generates a response in one call
func GenerateResponse(ctx context.Context, question string, opts ...AgentOption) (string, error) {
	agent, err := NewResearchAgent(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create agent: %w", err)
	}

	result, err := agent.Generate(ctx, fantasy.AgentCall{Prompt: question})
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	return result.Response.Content.Text(), nil
}
