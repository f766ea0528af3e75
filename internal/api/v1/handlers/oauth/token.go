package oauth

import (
	"encoding/json"
	"net/http"

	"github.com/deepgram/danmaku/internal/config"
	"github.com/deepgram/danmaku/internal/services/oauth"
	"github.com/deepgram/danmaku/pkg/httpext"
	"github.com/rs/zerolog/log"
)

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type TokenRequest struct {
	GrantType string `json:"grant_type"`
}

// HandleToken issues short-lived anonymous tokens for overlay clients.
func HandleToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpext.JsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.GrantType != oauth.GrantTypeAnonymous {
		httpext.JsonError(w, "Invalid grant type", http.StatusBadRequest)
		return
	}

	lifetime := config.GetTokenLifetime()
	tokenString, err := oauth.IssueToken(oauth.GrantTypeAnonymous, []string{config.DanmakuScope}, lifetime)
	if err != nil {
		log.Error().Err(err).Msg("Failed to issue token")
		httpext.JsonError(w, "Error creating token", http.StatusInternalServerError)
		return
	}

	httpext.JsonResponse(w, http.StatusOK, TokenResponse{
		AccessToken: tokenString,
		TokenType:   "Bearer",
		ExpiresIn:   int(lifetime.Seconds()),
	})
}
