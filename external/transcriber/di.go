package transcriber

import (
	"fmt"

	"github.com/overmindlabs/overmind/internal/config"
	"github.com/overmindlabs/overmind/internal/transcriber"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (transcriber.Transcriber, error) {
		c := do.MustInvoke[*config.Config](i)
		switch c.TranscriberProvider {
		case config.TranscriberProviderWhisper:
			return NewWhisperTranscriber(c.OpenAIAPIKey, c.WhisperModel), nil
		case config.TranscriberProviderCloudSpeech:
			return NewCloudSpeechTranscriber(CloudSpeechConfig{
				ProjectID:       c.GoogleCloudProjectID,
				CredentialsJSON: c.GoogleCloudCredentialsJSON,
				Location:        c.GoogleCloudSpeechLocation,
				Model:           c.GoogleCloudSpeechModel,
			}), nil
		}
		return nil, fmt.Errorf("unsupported transcriber provider: %s", c.TranscriberProvider)
	})
}
