package config

// InferenceTier is the endpoint configuration for one chat-completions
// service. Both tiers speak the OpenAI chat protocol.
type InferenceTier struct {
	BaseURL string `json:"baseUrl"`
	APIKey  string `json:"-"` // Never serialize
	Model   string `json:"model"`
}

// IsEnabled returns true if the tier has credentials
func (t *InferenceTier) IsEnabled() bool {
	return t.APIKey != ""
}

// AIConfig holds the two inference tiers used by the classifier. The
// primary tier carries the full intent schema; the secondary is a
// smaller, cheaper service with a narrow intent set.
type AIConfig struct {
	Primary   InferenceTier `json:"primary"`
	Secondary InferenceTier `json:"secondary"`
	TimeoutMS int           `json:"timeoutMs"`
}

// DefaultAIConfig returns the default inference configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		Primary: InferenceTier{
			BaseURL: getEnv("PRIMARY_AI_BASE_URL", "https://api.openai.com/v1"),
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			Model:   getEnv("PRIMARY_AI_MODEL", "gpt-4o-mini"),
		},
		Secondary: InferenceTier{
			BaseURL: getEnv("SECONDARY_AI_BASE_URL", "https://api.groq.com/openai/v1"),
			APIKey:  getEnv("GROQ_API_KEY", ""),
			Model:   getEnv("SECONDARY_AI_MODEL", "llama-3.1-8b-instant"),
		},
		TimeoutMS: 10000, // 10 second default timeout
	}
}
