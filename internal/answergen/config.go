package answergen

// Config controls the behavior of the LLMGenerator and Fill.
type Config struct {
	// Validators run in order on every drafted answer; the first failure
	// rejects it.
	Validators []Validator

	// MaxTokens is the token budget for one answer.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// Concurrency bounds in-flight generation requests.
	Concurrency int

	// Overwrite regenerates answers that are already present.
	Overwrite bool
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&LengthValidator{Max: 1200},
			&EchoValidator{},
		},
		MaxTokens:   512,
		Temperature: 0.2,
		Concurrency: 4,
	}
}
