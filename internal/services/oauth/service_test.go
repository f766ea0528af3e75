package oauth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/deepgram/danmaku/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidateToken(t *testing.T) {
	restore := config.SetJWTSecret([]byte("test-secret"))
	defer restore()

	token, err := IssueToken(GrantTypeAnonymous, []string{config.DanmakuScope}, time.Minute)
	require.NoError(t, err)

	result := ValidateToken(token)
	assert.True(t, result.Valid)
	assert.Equal(t, GrantTypeAnonymous, result.GrantType)
	assert.True(t, result.HasScope(config.DanmakuScope))
	assert.False(t, result.HasScope("admin"))
	assert.WithinDuration(t, time.Now().Add(time.Minute), result.ExpiresAt, 5*time.Second)
}

func TestValidateTokenRejects(t *testing.T) {
	restore := config.SetJWTSecret([]byte("test-secret"))
	defer restore()

	expired, err := IssueToken(GrantTypeAnonymous, nil, -time.Minute)
	require.NoError(t, err)

	wrongGrant, err := IssueToken("client_credentials", nil, time.Minute)
	require.NoError(t, err)

	restoreOther := config.SetJWTSecret([]byte("other-secret"))
	foreign, err := IssueToken(GrantTypeAnonymous, nil, time.Minute)
	require.NoError(t, err)
	restoreOther()

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"expired", expired},
		{"wrong grant", wrongGrant},
		{"wrong secret", foreign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, ValidateToken(tt.token).Valid)
		})
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		query  string
		want   string
	}{
		{"bearer header", "Bearer abc", "", "abc"},
		{"lowercase scheme", "bearer abc", "", "abc"},
		{"malformed header", "Token abc", "", ""},
		{"query fallback", "", "?access_token=xyz", "xyz"},
		{"nothing", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/v1/danmaku/ws"+tt.query, nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, ExtractToken(r))
		})
	}
}
