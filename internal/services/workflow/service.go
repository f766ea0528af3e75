package workflow

import (
	"context"

	"github.com/deepgram/danmaku/internal/domain/danmaku/models"
)

// IntentClassifier decides what a danmaku is asking for.
type IntentClassifier interface {
	AnalyzeIntent(ctx context.Context, content string) (models.Intent, error)
}

// ResponseGenerator writes the streamer's reply for each intent.
type ResponseGenerator interface {
	GenerateConversationResponse(ctx context.Context, content string) (string, error)
	GenerateSingingResponse(ctx context.Context, content string) (string, error)
	// GenerateDrawingResponse returns the reply text and the prompt to draw.
	GenerateDrawingResponse(ctx context.Context, content string) (string, string, error)
	GenerateOtherResponse(ctx context.Context, content string) (string, error)
}

// ImageGenerator turns a drawing prompt into an image reference.
type ImageGenerator interface {
	// OptimizePrompt is a pure rewrite of the prompt and cannot fail.
	OptimizePrompt(prompt string) string
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// SpeechSynthesizer renders reply text as audio.
type SpeechSynthesizer interface {
	GenerateSpeech(ctx context.Context, text string) ([]byte, error)
}

// ProgressSender receives progress events. Implementations must not block.
type ProgressSender interface {
	Send(event models.ProgressEvent) error
}

// Processor is the call boundary used by the HTTP and websocket handlers.
type Processor interface {
	ProcessDanmaku(ctx context.Context, content string, progress ProgressSender) (*models.ProcessingResult, error)
}
