package tutor

import "time"

// Config holds explanation generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds one explanation request including provider retries.
	Timeout time.Duration
}

// DefaultConfig returns defaults for short explanations.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   300,
		Temperature: 0.4,
		Timeout:     20 * time.Second,
	}
}
