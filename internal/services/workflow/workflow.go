package workflow

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/deepgram/danmaku/internal/domain/danmaku/models"
	"github.com/deepgram/danmaku/pkg/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	msgIntentAnalysis          = "🤔 正在分析弹幕意图..."
	msgResponseGeneration      = "💭 正在生成回应内容..."
	msgImageGenerationStart    = "🎨 正在为您创作图片，请稍等片刻..."
	msgImagePromptOptimization = "✨ 正在优化绘画提示词..."
	msgImageGenerationProgress = "🎨 AI正在努力创作中，精美的画作马上就好..."
	msgImageGenerationComplete = "✨ 图片创作完成！"
	msgImageGenerationError    = "❌ 图片生成失败，请稍后再试"
	msgTTSGeneration           = "🎤 正在生成语音回应..."
	msgTTSComplete             = "🔊 语音生成完成！"
	msgTTSError                = "❌ 语音生成失败"
	msgProcessingComplete      = "✅ 处理完成！"
)

type Config struct {
	// MaxDanmakuLength is measured in characters, not bytes.
	MaxDanmakuLength int
}

// Workflow runs a danmaku through classification, reply generation, optional
// drawing and speech synthesis. It holds no per-call state, so one Workflow
// serves any number of concurrent calls as long as its collaborators do.
type Workflow struct {
	classifier IntentClassifier
	generator  ResponseGenerator
	imageTool  ImageGenerator
	ttsTool    SpeechSynthesizer
	config     Config
}

func NewWorkflow(classifier IntentClassifier, generator ResponseGenerator, imageTool ImageGenerator, ttsTool SpeechSynthesizer, config Config) *Workflow {
	return &Workflow{
		classifier: classifier,
		generator:  generator,
		imageTool:  imageTool,
		ttsTool:    ttsTool,
		config:     config,
	}
}

// ProcessDanmaku runs the full pipeline for one message. progress may be nil.
// Only input validation, classification and reply generation can fail the
// call; image and speech failures leave the matching result field empty.
func (w *Workflow) ProcessDanmaku(ctx context.Context, content string, progress ProgressSender) (*models.ProcessingResult, error) {
	l := logger.For(logger.WORKFLOW).With().Str("request_id", uuid.New().String()).Logger()

	length := utf8.RuneCountInString(content)
	if length > w.config.MaxDanmakuLength {
		l.Warn().Int("length", length).Int("max", w.config.MaxDanmakuLength).Msg("Rejecting danmaku that exceeds the length limit")
		return nil, fmt.Errorf("%w: %d characters exceeds limit of %d", ErrInputTooLong, length, w.config.MaxDanmakuLength)
	}

	l.Info().Str("content", content).Msg("Processing danmaku")

	w.sendProgress(&l, progress, models.StageIntentAnalysis, msgIntentAnalysis, "")

	intent, err := w.classifier.AnalyzeIntent(ctx, content)
	if err != nil {
		l.Error().Err(err).Msg("Intent analysis failed")
		return nil, fmt.Errorf("%w: %w", ErrClassificationFailed, err)
	}
	if !intent.Valid() {
		l.Error().Str("intent", intent.String()).Msg("Classifier returned an unsupported intent")
		return nil, fmt.Errorf("%w: unsupported intent %q", ErrClassificationFailed, intent)
	}
	l.Info().Str("intent", intent.String()).Msg("Detected intent type")

	w.sendProgress(&l, progress, models.StageResponseGeneration, msgResponseGeneration, "")

	textResponse, imagePrompt, err := w.generateResponse(ctx, intent, content)
	if err != nil {
		l.Error().Err(err).Str("intent", intent.String()).Msg("Response generation failed")
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	var imageURL string
	if imagePrompt != "" {
		w.sendProgress(&l, progress, models.StageImageGenerationStart, msgImageGenerationStart, imagePrompt)

		imageURL, err = w.generateImage(ctx, &l, imagePrompt, progress)
		if err != nil {
			l.Error().Err(fmt.Errorf("%w: %w", ErrImageGenerationFailed, err)).Msg("Image generation failed")
			w.sendProgress(&l, progress, models.StageImageGenerationError, msgImageGenerationError, "")
			imageURL = ""
		} else {
			w.sendProgress(&l, progress, models.StageImageGenerationComplete, msgImageGenerationComplete, "")
		}
	}

	w.sendProgress(&l, progress, models.StageTTSGeneration, msgTTSGeneration, "")

	audioData, err := w.ttsTool.GenerateSpeech(ctx, textResponse)
	if err != nil {
		l.Error().Err(fmt.Errorf("%w: %w", ErrSpeechSynthesisFailed, err)).Msg("TTS generation failed")
		w.sendProgress(&l, progress, models.StageTTSError, msgTTSError, "")
		audioData = nil
	} else {
		w.sendProgress(&l, progress, models.StageTTSComplete, msgTTSComplete, "")
	}

	w.sendProgress(&l, progress, models.StageProcessingComplete, msgProcessingComplete, "")

	l.Info().
		Str("intent", intent.String()).
		Bool("has_audio", len(audioData) > 0).
		Bool("has_image", imageURL != "").
		Msg("Danmaku processed")

	return &models.ProcessingResult{
		IntentType:   intent,
		TextResponse: textResponse,
		AudioData:    audioData,
		ImageURL:     imageURL,
	}, nil
}

func (w *Workflow) generateResponse(ctx context.Context, intent models.Intent, content string) (string, string, error) {
	switch intent {
	case models.IntentConversation:
		text, err := w.generator.GenerateConversationResponse(ctx, content)
		return text, "", err
	case models.IntentSingingRequest:
		text, err := w.generator.GenerateSingingResponse(ctx, content)
		return text, "", err
	case models.IntentDrawingRequest:
		return w.generator.GenerateDrawingResponse(ctx, content)
	case models.IntentOtherCommand:
		text, err := w.generator.GenerateOtherResponse(ctx, content)
		return text, "", err
	default:
		return "", "", fmt.Errorf("unsupported intent %q", intent)
	}
}

func (w *Workflow) generateImage(ctx context.Context, l *zerolog.Logger, prompt string, progress ProgressSender) (string, error) {
	w.sendProgress(l, progress, models.StageImagePromptOptimization, msgImagePromptOptimization, "")

	optimizedPrompt := w.imageTool.OptimizePrompt(prompt)

	w.sendProgress(l, progress, models.StageImageGenerationProgress, msgImageGenerationProgress, optimizedPrompt)

	return w.imageTool.GenerateImage(ctx, optimizedPrompt)
}

// sendProgress is fire-and-forget: delivery failures are logged and never
// affect the run.
func (w *Workflow) sendProgress(l *zerolog.Logger, progress ProgressSender, stage, message, imagePrompt string) {
	if progress == nil {
		return
	}

	event := models.ProgressEvent{
		Stage:       stage,
		Message:     message,
		ImagePrompt: imagePrompt,
	}

	if err := progress.Send(event); err != nil {
		l.Warn().Err(err).Str("stage", stage).Msg("Failed to send progress update")
	}
}
