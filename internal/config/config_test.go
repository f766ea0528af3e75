package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "returns default when env not set",
			key:          "TEST_KEY_1",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
		{
			name:         "returns env value when set",
			key:          "TEST_KEY_2",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			assert.Equal(t, tt.want, GetEnvOrDefault(tt.key, tt.defaultValue))
		})
	}
}

func TestGetMaxDanmakuLength(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		want     int
	}{
		{"default when unset", "", defaultMaxDanmakuLength},
		{"explicit value", "50", 50},
		{"not a number", "fifty", defaultMaxDanmakuLength},
		{"zero is rejected", "0", defaultMaxDanmakuLength},
		{"negative is rejected", "-3", defaultMaxDanmakuLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv("MAX_DANMAKU_LENGTH", tt.envValue)
				defer os.Unsetenv("MAX_DANMAKU_LENGTH")
			}

			assert.Equal(t, tt.want, GetMaxDanmakuLength())
		})
	}
}

func TestGetRateLimitConfig(t *testing.T) {
	os.Setenv("RATELIMIT_ENABLED", "true")
	os.Setenv("RATELIMIT_DANMAKU", "5")
	defer os.Unsetenv("RATELIMIT_ENABLED")
	defer os.Unsetenv("RATELIMIT_DANMAKU")

	cfg := GetRateLimitConfig("danmaku")
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 5, cfg.MaxHits)
	assert.Equal(t, time.Minute, cfg.Window)

	assert.False(t, GetRateLimitConfig("unknown").Enabled)
}

func TestJWTSecretManagement(t *testing.T) {
	originalSecret := GetJWTSecret()
	newSecret := []byte("test-secret")

	t.Run("set and restore JWT secret", func(t *testing.T) {
		restore := SetJWTSecret(newSecret)
		assert.Equal(t, newSecret, GetJWTSecret())

		restore()
		assert.Equal(t, originalSecret, GetJWTSecret())
	})

	t.Run("concurrent access to JWT secret", func(t *testing.T) {
		done := make(chan bool)
		for i := 0; i < 10; i++ {
			go func() {
				GetJWTSecret()
				done <- true
			}()
		}

		for i := 0; i < 10; i++ {
			<-done
		}
	})
}
