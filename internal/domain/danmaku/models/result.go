package models

// ProcessingResult is the outcome of one danmaku run. AudioData and ImageURL
// are empty when the corresponding stage was skipped or failed.
type ProcessingResult struct {
	IntentType   Intent `json:"intent_type"`
	TextResponse string `json:"text_response"`
	AudioData    []byte `json:"audio_data,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
}

func (r *ProcessingResult) HasAudio() bool {
	return len(r.AudioData) > 0
}

func (r *ProcessingResult) HasImage() bool {
	return r.ImageURL != ""
}
