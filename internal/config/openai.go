package config

import (
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

// GetOpenAIKey returns the current OpenAI key
func GetOpenAIKey() string {
	value := GetEnvOrDefault("OPENAI_KEY", "")
	if value == "" {
		log.Warn().Msg("OPENAI_KEY environment variable not set")
	}
	return value
}

// GetOpenAIBaseURL returns an alternative OpenAI-compatible endpoint, if any
func GetOpenAIBaseURL() string {
	return GetEnvOrDefault("OPENAI_BASE_URL", "")
}

func GetOpenAIChatModel() string {
	return GetEnvOrDefault("OPENAI_CHAT_MODEL", openai.GPT4oMini)
}

func GetOpenAIImageModel() string {
	return GetEnvOrDefault("OPENAI_IMAGE_MODEL", openai.CreateImageModelDallE3)
}

func GetOpenAIImageSize() string {
	return GetEnvOrDefault("OPENAI_IMAGE_SIZE", openai.CreateImageSize1024x1024)
}

// GetImageStyleSuffix returns the style hint appended to every optimised drawing prompt
func GetImageStyleSuffix() string {
	return GetEnvOrDefault("IMAGE_STYLE_SUFFIX", "anime style, vibrant colors, high quality, detailed illustration")
}
