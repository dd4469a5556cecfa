package config

import "fmt"

const (
	TranscriberProviderWhisper     = "whisper"
	TranscriberProviderCloudSpeech = "cloud_speech"
)

type Config struct {
	Env             string
	HTTPListenAddr  string
	DefaultLanguage string
	DatabaseURL     string

	CompletionBaseURL string
	CompletionAPIKey  string
	CompletionModel   string

	TranscriberProvider        string
	OpenAIAPIKey               string
	WhisperModel               string
	GoogleCloudProjectID       string
	GoogleCloudCredentialsJSON string
	GoogleCloudSpeechLocation  string
	GoogleCloudSpeechModel     string

	StorageEndpoint     string
	StorageAccessKey    string
	StorageSecretKey    string
	StorageBucket       string
	StorageRegion       string
	StorageUseSSL       bool
	StorageFolderPrefix string

	CompletionWebhookURL string
	DiscordToken         string
	DiscordChannelID     string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	switch c.TranscriberProvider {
	case TranscriberProviderWhisper:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when TRANSCRIBER_PROVIDER=%s", TranscriberProviderWhisper)
		}
	case TranscriberProviderCloudSpeech:
		if c.GoogleCloudProjectID == "" || c.GoogleCloudCredentialsJSON == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT_ID and GOOGLE_CLOUD_CREDENTIALS_JSON are required when TRANSCRIBER_PROVIDER=%s", TranscriberProviderCloudSpeech)
		}
	default:
		return fmt.Errorf("TRANSCRIBER_PROVIDER must be %q or %q, got %q", TranscriberProviderWhisper, TranscriberProviderCloudSpeech, c.TranscriberProvider)
	}
	if c.DiscordToken != "" && c.DiscordChannelID == "" {
		return fmt.Errorf("DISCORD_CHANNEL_ID is required when DISCORD_TOKEN is set")
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "HTTP_LISTEN_ADDR", value: c.HTTPListenAddr},
		{name: "DEFAULT_LANGUAGE", value: c.DefaultLanguage},
		{name: "DATABASE_URL", value: c.DatabaseURL},
		{name: "COMPLETION_BASE_URL", value: c.CompletionBaseURL},
		{name: "COMPLETION_API_KEY", value: c.CompletionAPIKey},
		{name: "COMPLETION_MODEL", value: c.CompletionModel},
		{name: "STORAGE_ENDPOINT", value: c.StorageEndpoint},
		{name: "STORAGE_ACCESS_KEY", value: c.StorageAccessKey},
		{name: "STORAGE_SECRET_KEY", value: c.StorageSecretKey},
		{name: "STORAGE_BUCKET", value: c.StorageBucket},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
