package mlp

// Locator points at an object in blob storage.
type Locator struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key_file"`
}

type GeneratedQuestion struct {
	Question     string   `json:"question"`
	GroundTruths []string `json:"ground_truths"`
	Topic        int      `json:"topic"`
}

type QuestionGenerationRequest struct {
	TaskID    string   `json:"task_id"`
	ResumeURL Locator  `json:"cv_url"`
	JDTexts   []string `json:"jd_texts"`
}

type QuestionGenerationResponse struct {
	TaskID       string              `json:"task_id"`
	Questions    []GeneratedQuestion `json:"questions"`
	ResumeChunks []string            `json:"cv_texts"`
}

// RenderRequest submits an avatar rendering task. A locator is present only
// for the asset kinds the template actually has; the artifact itself arrives
// later through the out-of-band callback, correlated by TaskID.
type RenderRequest struct {
	TaskID   string   `json:"task_id"`
	VideoURL *Locator `json:"video_url,omitempty"`
	AudioURL *Locator `json:"audio_url,omitempty"`
	ImageURL *Locator `json:"image_url,omitempty"`
	Text     string   `json:"text,omitempty"`
}

type RenderAck struct {
	Status string `json:"status"`
	TaskID string `json:"task_id"`
	Detail string `json:"detail,omitempty"`
}

// RenderResult is the callback payload delivered by the pipeline once a
// rendering task finishes.
type RenderResult struct {
	TaskID   string  `json:"task_id"`
	VideoURL Locator `json:"video_url"`
}

type CandidateQuestion struct {
	QuestionID string `json:"question_id"`
	Topic      int    `json:"topic"`
	IsUsed     bool   `json:"is_used"`
}

type AskedQuestion struct {
	QuestionID string `json:"question_id"`
	Topic      int    `json:"topic"`
	IsUsed     bool   `json:"is_used"`
	IsAnswered bool   `json:"is_answered"`
}

// SelectionRequest asks the pipeline to pick the next question. QuestionBank
// deliberately has no omitempty: an empty candidate set is reported as [].
type SelectionRequest struct {
	TaskID        string              `json:"task_id"`
	QuestionBank  []CandidateQuestion `json:"question_bank"`
	AskedQuestion AskedQuestion       `json:"asked_question"`
}

type SelectionResponse struct {
	QuestionID string `json:"question_id"`
}

type QuestionPayload struct {
	Question     string   `json:"question"`
	GroundTruths []string `json:"ground_truths"`
	Topic        int      `json:"topic"`
}

type AnalysisRequest struct {
	TaskID   string          `json:"task_id"`
	VideoURL Locator         `json:"video_url"`
	AudioURL Locator         `json:"audio_url"`
	Question QuestionPayload `json:"question"`
}

// AnalysisResponse carries the scored answer. Pointer fields distinguish "not
// reported" from a legitimate zero or false.
type AnalysisResponse struct {
	TaskID             string   `json:"task_id"`
	OverallScore       *float64 `json:"overall_score,omitempty"`
	ConfidenceScore    *float64 `json:"confidence_score,omitempty"`
	TextRelevancyScore *float64 `json:"text_relevancy_score,omitempty"`
	ProfessionalScore  *float64 `json:"professional_score,omitempty"`
	FluencyScore       *float64 `json:"fluency_score,omitempty"`
	HasBadWords        *bool    `json:"has_bad_words,omitempty"`
	EmotionFromText    *string  `json:"emotion_from_text,omitempty"`
	EmotionFromAudio   *string  `json:"emotion_from_audio,omitempty"`
	EmotionFromVideo   *string  `json:"emotion_from_video,omitempty"`
}
