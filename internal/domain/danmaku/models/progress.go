package models

// Stage tags carried by progress events, in the order the workflow emits them.
const (
	StageIntentAnalysis          = "intent_analysis"
	StageResponseGeneration      = "response_generation"
	StageImageGenerationStart    = "image_generation_start"
	StageImagePromptOptimization = "image_prompt_optimization"
	StageImageGenerationProgress = "image_generation_progress"
	StageImageGenerationComplete = "image_generation_complete"
	StageImageGenerationError    = "image_generation_error"
	StageTTSGeneration           = "tts_generation"
	StageTTSComplete             = "tts_complete"
	StageTTSError                = "tts_error"
	StageProcessingComplete      = "processing_complete"
)

// ProgressEvent describes one stage transition of the workflow.
type ProgressEvent struct {
	Stage       string `json:"stage"`
	Message     string `json:"message"`
	ImagePrompt string `json:"image_prompt,omitempty"`
}

// Message types on the danmaku websocket.
const (
	MessageTypeProgress = "progress"
	MessageTypeResult   = "result"
	MessageTypeError    = "error"
)

// WebSocketMessage is the envelope written to websocket observers.
type WebSocketMessage struct {
	Type   string            `json:"type"`
	Stage  string            `json:"stage,omitempty"`
	Msg    string            `json:"message,omitempty"`
	Prompt string            `json:"image_prompt,omitempty"`
	Result *ProcessingResult `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

func NewProgressMessage(event ProgressEvent) WebSocketMessage {
	return WebSocketMessage{
		Type:   MessageTypeProgress,
		Stage:  event.Stage,
		Msg:    event.Message,
		Prompt: event.ImagePrompt,
	}
}

func NewResultMessage(result *ProcessingResult) WebSocketMessage {
	return WebSocketMessage{Type: MessageTypeResult, Result: result}
}

func NewErrorMessage(code, message string) WebSocketMessage {
	return WebSocketMessage{Type: MessageTypeError, Error: code, Msg: message}
}
