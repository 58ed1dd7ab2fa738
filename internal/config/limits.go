package config

const (
	// MaxChatTitleLength bounds the title derived from a chat's first message.
	// Counted in characters (runes), not bytes.
	MaxChatTitleLength = 40

	// MaxOutputTokens is the output-token budget for every upstream completion.
	MaxOutputTokens = 10000

	// ResumeTemperature is the sampling temperature used when a job
	// description drives generation. The other paths leave it unset.
	ResumeTemperature float32 = 0.7

	// DefaultModel is the upstream model used when OPENAI_MODEL is unset.
	DefaultModel = "gpt-4o"

	// MaxRequestBodyBytes limits JSON request bodies.
	MaxRequestBodyBytes = 10 << 20
)
