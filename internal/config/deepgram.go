package config

import "github.com/rs/zerolog/log"

func GetDeepgramAPIKey() string {
	value := GetEnvOrDefault("DEEPGRAM_API_KEY", "")
	if value == "" {
		log.Warn().Msg("DEEPGRAM_API_KEY environment variable not set")
	}
	return value
}

func GetDeepgramURL() string {
	return GetEnvOrDefault("DEEPGRAM_URL", "https://api.deepgram.com")
}

// GetDeepgramTTSModel returns the Aura voice used for speech synthesis
func GetDeepgramTTSModel() string {
	return GetEnvOrDefault("DEEPGRAM_TTS_MODEL", "aura-asteria-en")
}
