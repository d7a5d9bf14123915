// Package llm provides the AI-provider collaborator: model configuration, a
// Client abstraction over Gemini (AI Studio) and Vertex AI, and the Assistant
// that turns CVs and job postings into structured, schema-checked output.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: classification, keyword extraction
	TierLite ModelTier = "lite"
	// TierStandard is for structured output: scoring, job signal extraction
	TierStandard ModelTier = "standard"
	// TierAdvanced is for rewriting: CV tailoring
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderNone disables AI; callers use the heuristic engines only
	ProviderNone Provider = "none"
	// ProviderGemini is Google AI Studio, authenticated with an API key
	ProviderGemini Provider = "gemini"
	// ProviderVertex is Vertex AI, authenticated with application default credentials
	ProviderVertex Provider = "vertex"
)

// DefaultVertexLocation is used when no region is configured.
const DefaultVertexLocation = "us-central1"

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string

	// Project and Location are only used by ProviderVertex.
	Project  string
	Location string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models:   defaultModels(),
	}
}

// DefaultVertexConfig returns a Vertex AI configuration for project. An empty
// location falls back to DefaultVertexLocation.
func DefaultVertexConfig(project, location string) *Config {
	if location == "" {
		location = DefaultVertexLocation
	}
	return &Config{
		Provider: ProviderVertex,
		Models:   defaultModels(),
		Project:  project,
		Location: location,
	}
}

func defaultModels() map[ModelTier]string {
	return map[ModelTier]string{
		TierLite:     "gemini-2.5-flash-lite",
		TierStandard: "gemini-2.5-flash",
		TierAdvanced: "gemini-2.5-pro",
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelTier]string),
		Project:  c.Project,
		Location: c.Location,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}
