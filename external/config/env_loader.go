package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/overmindlabs/overmind/internal/config"
)

type envConfig struct {
	Env             string `env:"ENV" envDefault:"production"`
	HTTPListenAddr  string `env:"HTTP_LISTEN_ADDR" envDefault:":8080"`
	DefaultLanguage string `env:"DEFAULT_LANGUAGE" envDefault:"en-US"`
	DatabaseURL     string `env:"DATABASE_URL,required"`

	CompletionBaseURL string `env:"COMPLETION_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	CompletionAPIKey  string `env:"COMPLETION_API_KEY,required"`
	CompletionModel   string `env:"COMPLETION_MODEL" envDefault:"llama-3.1-8b-instant"`

	TranscriberProvider        string `env:"TRANSCRIBER_PROVIDER" envDefault:"whisper"`
	OpenAIAPIKey               string `env:"OPENAI_API_KEY"`
	WhisperModel               string `env:"WHISPER_MODEL" envDefault:"whisper-1"`
	GoogleCloudProjectID       string `env:"GOOGLE_CLOUD_PROJECT_ID"`
	GoogleCloudCredentialsJSON string `env:"GOOGLE_CLOUD_CREDENTIALS_JSON"`
	GoogleCloudSpeechLocation  string `env:"GOOGLE_CLOUD_SPEECH_LOCATION" envDefault:"global"`
	GoogleCloudSpeechModel     string `env:"GOOGLE_CLOUD_SPEECH_MODEL" envDefault:"latest_long"`

	StorageEndpoint     string `env:"STORAGE_ENDPOINT,required"`
	StorageAccessKey    string `env:"STORAGE_ACCESS_KEY,required"`
	StorageSecretKey    string `env:"STORAGE_SECRET_KEY,required"`
	StorageBucket       string `env:"STORAGE_BUCKET,required"`
	StorageRegion       string `env:"STORAGE_REGION" envDefault:"us-east-1"`
	StorageUseSSL       bool   `env:"STORAGE_USE_SSL" envDefault:"true"`
	StorageFolderPrefix string `env:"STORAGE_FOLDER_PREFIX"`

	CompletionWebhookURL string `env:"COMPLETION_WEBHOOK_URL"`
	DiscordToken         string `env:"DISCORD_TOKEN"`
	DiscordChannelID     string `env:"DISCORD_CHANNEL_ID"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:             raw.Env,
		HTTPListenAddr:  raw.HTTPListenAddr,
		DefaultLanguage: raw.DefaultLanguage,
		DatabaseURL:     raw.DatabaseURL,

		CompletionBaseURL: raw.CompletionBaseURL,
		CompletionAPIKey:  raw.CompletionAPIKey,
		CompletionModel:   raw.CompletionModel,

		TranscriberProvider:        raw.TranscriberProvider,
		OpenAIAPIKey:               raw.OpenAIAPIKey,
		WhisperModel:               raw.WhisperModel,
		GoogleCloudProjectID:       raw.GoogleCloudProjectID,
		GoogleCloudCredentialsJSON: raw.GoogleCloudCredentialsJSON,
		GoogleCloudSpeechLocation:  raw.GoogleCloudSpeechLocation,
		GoogleCloudSpeechModel:     raw.GoogleCloudSpeechModel,

		StorageEndpoint:     raw.StorageEndpoint,
		StorageAccessKey:    raw.StorageAccessKey,
		StorageSecretKey:    raw.StorageSecretKey,
		StorageBucket:       raw.StorageBucket,
		StorageRegion:       raw.StorageRegion,
		StorageUseSSL:       raw.StorageUseSSL,
		StorageFolderPrefix: raw.StorageFolderPrefix,

		CompletionWebhookURL: raw.CompletionWebhookURL,
		DiscordToken:         raw.DiscordToken,
		DiscordChannelID:     raw.DiscordChannelID,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
