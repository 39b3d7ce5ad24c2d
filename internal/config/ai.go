package config

import "os"

// SpeechConfig holds the Gemini text-to-speech settings
type SpeechConfig struct {
	APIKey  string `json:"-"` // Never serialize
	BaseURL string `json:"baseUrl"`

	// Model must support the AUDIO response modality
	Model string `json:"model"`

	// Voice is a prebuilt voice name
	Voice string `json:"voice"`

	TimeoutMS int `json:"timeoutMs"`
}

// DefaultSpeechConfig returns the speech configuration from the environment
func DefaultSpeechConfig() *SpeechConfig {
	return &SpeechConfig{
		APIKey:    os.Getenv("GEMINI_API_KEY"),
		BaseURL:   getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models"),
		Model:     getEnv("GEMINI_MODEL_TTS", "gemini-2.5-flash-preview-tts"),
		Voice:     getEnv("GEMINI_VOICE", "Kore"),
		TimeoutMS: getEnvInt("GEMINI_TIMEOUT_MS", 30000),
	}
}

// IsEnabled returns true if the speech API is configured
func (c *SpeechConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the generateContent endpoint for the configured model
func (c *SpeechConfig) ModelEndpoint() string {
	return c.BaseURL + "/" + c.Model + ":generateContent"
}
