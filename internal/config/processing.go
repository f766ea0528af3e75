package config

import "github.com/rs/zerolog/log"

const defaultMaxDanmakuLength = 200

// GetMaxDanmakuLength returns the longest danmaku, in characters, the workflow accepts
func GetMaxDanmakuLength() int {
	value := parseEnvInt("MAX_DANMAKU_LENGTH", defaultMaxDanmakuLength)
	if value <= 0 {
		log.Warn().Int("value", value).Msg("MAX_DANMAKU_LENGTH must be positive, using default")
		return defaultMaxDanmakuLength
	}
	return value
}
