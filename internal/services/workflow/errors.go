package workflow

import "errors"

var (
	ErrInputTooLong         = errors.New("danmaku content too long")
	ErrClassificationFailed = errors.New("intent classification failed")
	ErrGenerationFailed     = errors.New("response generation failed")

	// Degradable failures. They are logged and reported as progress events,
	// never returned from ProcessDanmaku.
	ErrImageGenerationFailed = errors.New("image generation failed")
	ErrSpeechSynthesisFailed = errors.New("speech synthesis failed")
)

// IsFatal reports whether err aborted a danmaku run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInputTooLong) ||
		errors.Is(err, ErrClassificationFailed) ||
		errors.Is(err, ErrGenerationFailed)
}
