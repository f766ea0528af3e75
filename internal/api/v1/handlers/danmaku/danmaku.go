package danmaku

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/deepgram/danmaku/internal/services/workflow"
	"github.com/deepgram/danmaku/pkg/httpext"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// use a single instance of Validate, it caches struct info
var validate = validator.New(validator.WithRequiredStructEnabled())

type Request struct {
	Content string `json:"content" validate:"required"`
}

// HandleDanmaku runs one danmaku through the workflow and returns the result
// without progress events.
func HandleDanmaku(processor workflow.Processor, w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("Client sent malformed JSON request")
		httpext.JsonError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		log.Warn().Err(err).Msg("Request validation failed")
		httpext.JsonErrorWithDetails(w, http.StatusBadRequest, httpext.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "content is required",
		})
		return
	}

	result, err := processor.ProcessDanmaku(r.Context(), req.Content, nil)
	if err != nil {
		code, status := classifyError(err)
		log.Error().Err(err).Str("client_ip", r.RemoteAddr).Msg("Failed to process danmaku")
		httpext.JsonErrorWithDetails(w, status, httpext.ErrorResponse{
			Error:            code,
			ErrorDescription: err.Error(),
		})
		return
	}

	httpext.JsonResponse(w, http.StatusOK, result)
}

// classifyError maps workflow errors onto an error code and HTTP status.
func classifyError(err error) (string, int) {
	if !workflow.IsFatal(err) {
		return "processing_failed", http.StatusInternalServerError
	}

	switch {
	case errors.Is(err, workflow.ErrInputTooLong):
		return "input_too_long", http.StatusBadRequest
	case errors.Is(err, workflow.ErrClassificationFailed):
		return "classification_failed", http.StatusBadGateway
	default:
		return "generation_failed", http.StatusBadGateway
	}
}
