package models

import "time"

// GenerationType classifies an avatar generation record.
type GenerationType string

const (
	// GenerationBase is an avatar template not yet bound to a question.
	// A user has at most one base generation at a time.
	GenerationBase GenerationType = "base"
	// GenerationGenerated is a per-question variant cloned from a base template.
	GenerationGenerated GenerationType = "generated"
	// GenerationIntro is a session-opening clip.
	GenerationIntro GenerationType = "intro"
)

func (t GenerationType) Valid() bool {
	switch t {
	case GenerationBase, GenerationGenerated, GenerationIntro:
		return true
	}
	return false
}

// RenderState tracks the asynchronous rendering hand-off for a generation.
// Templates that were never submitted stay at RenderNone, so an empty
// bucket/path no longer doubles as a "pending" marker.
type RenderState string

const (
	RenderNone    RenderState = "none"
	RenderPending RenderState = "pending"
	RenderReady   RenderState = "ready"
)

type Generation struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	VideoID     string         `json:"video_id,omitempty"`
	AudioID     string         `json:"audio_id,omitempty"`
	ImageID     string         `json:"image_id,omitempty"`
	Bucket      string         `json:"bucket_s3,omitempty"`
	ObjectPath  string         `json:"path_s3,omitempty"`
	Type        GenerationType `json:"type"`
	RenderState RenderState    `json:"render_state"`
	CreatedAt   time.Time      `json:"created_at"`
}

// GenerationPatch lists the mutable fields of a Generation. Nil means "leave
// unchanged"; a pointer to the zero value clears the field.
type GenerationPatch struct {
	VideoID     *string
	AudioID     *string
	ImageID     *string
	Bucket      *string
	ObjectPath  *string
	Type        *GenerationType
	RenderState *RenderState
}

func (p GenerationPatch) Empty() bool {
	return p.VideoID == nil && p.AudioID == nil && p.ImageID == nil &&
		p.Bucket == nil && p.ObjectPath == nil && p.Type == nil && p.RenderState == nil
}

type Question struct {
	ID                 string    `json:"id"`
	AvatarGenerationID string    `json:"avatar_generation_id"`
	ResumeID           string    `json:"cv_id"`
	JobDescriptionID   string    `json:"jd_id"`
	SessionID          string    `json:"interview_session_id"`
	QuestionContext    string    `json:"question_context"`
	Topic              int       `json:"topic"`
	IsUsed             bool      `json:"is_used"`
	IsAnswered         bool      `json:"is_answered"`
	CreatedAt          time.Time `json:"created_at"`
}

type QuestionPatch struct {
	QuestionContext *string
	Topic           *int
	IsUsed          *bool
	IsAnswered      *bool
}

type InterviewSession struct {
	ID               string    `json:"id"`
	ResumeID         string    `json:"cv_id"`
	JobDescriptionID string    `json:"jd_id"`
	InterviewerID    string    `json:"interviewer_id,omitempty"`
	IntervieweeID    string    `json:"interviewee_id,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

type SessionPatch struct {
	InterviewerID *string
	IntervieweeID *string
	Status        *string
}

// ParentKind tags the entity a text fragment belongs to.
type ParentKind string

const (
	ParentResume         ParentKind = "resume"
	ParentJobDescription ParentKind = "job_description"
	ParentQuestion       ParentKind = "question"
)

func (k ParentKind) Valid() bool {
	switch k {
	case ParentResume, ParentJobDescription, ParentQuestion:
		return true
	}
	return false
}

type Text struct {
	ID         string     `json:"id"`
	ParentKind ParentKind `json:"parent_kind"`
	ParentID   string     `json:"parent_id"`
	Body       string     `json:"text"`
}

type Answer struct {
	ID                 string    `json:"id"`
	QuestionID         string    `json:"question_id"`
	Bucket             string    `json:"bucket_s3"`
	VideoPath          string    `json:"video_url"`
	AudioPath          string    `json:"audio_url"`
	OverallScore       float64   `json:"overall_score"`
	ConfidenceScore    float64   `json:"confidence_score"`
	TextRelevancyScore float64   `json:"text_relevancy_score"`
	ProfessionalScore  float64   `json:"professional_score"`
	FluencyScore       float64   `json:"fluency_score"`
	HasBadWords        bool      `json:"has_bad_words"`
	EmotionFromText    string    `json:"emotion_from_text"`
	EmotionFromAudio   string    `json:"emotion_from_audio"`
	EmotionFromVideo   string    `json:"emotion_from_video"`
	CreatedAt          time.Time `json:"created_at"`
}

// AnswerAnalysis carries the analysis callback fields. Nil pointers leave the
// stored value untouched, so a genuine 0.0 score or false flag is settable
// without being confused with "not reported".
type AnswerAnalysis struct {
	OverallScore       *float64
	ConfidenceScore    *float64
	TextRelevancyScore *float64
	ProfessionalScore  *float64
	FluencyScore       *float64
	HasBadWords        *bool
	EmotionFromText    *string
	EmotionFromAudio   *string
	EmotionFromVideo   *string
}

type Resume struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type JobDescription struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// AssetKind classifies a stored media record.
type AssetKind string

const (
	AssetVideo AssetKind = "video"
	AssetAudio AssetKind = "audio"
	AssetImage AssetKind = "image"
)

type Asset struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Kind      AssetKind `json:"kind"`
	FileName  string    `json:"file_name"`
	Extension string    `json:"extension"`
	Language  string    `json:"language,omitempty"`
	Size      int64     `json:"size"`
	Duration  int64     `json:"duration,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
