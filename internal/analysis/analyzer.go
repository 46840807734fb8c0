package analysis

import (
	"context"

	"go.uber.org/zap"

	"github.com/interview-studio/backend/internal/metrics"
	"github.com/interview-studio/backend/internal/mlp"
	"github.com/interview-studio/backend/internal/storage/models"
	"github.com/interview-studio/backend/internal/storage/sqlite"
	"github.com/interview-studio/backend/pkg/logger"
)

type Gateway interface {
	AnalyzeAnswer(ctx context.Context, req mlp.AnalysisRequest) (*mlp.AnalysisResponse, error)
}

// Analyzer hands a recorded answer to the ML pipeline for scoring and merges
// the reported fields back onto the answer record.
type Analyzer struct {
	db      *sqlite.Client
	gateway Gateway
}

func NewAnalyzer(db *sqlite.Client, gateway Gateway) *Analyzer {
	return &Analyzer{db: db, gateway: gateway}
}

// Analyze packages the answer with its question's ground truths, keyed by the
// answer id as task id, and applies the response. Fields the pipeline did not
// report are left untouched.
func (a *Analyzer) Analyze(ctx context.Context, answerID string) (*models.Answer, error) {
	answer, err := a.db.GetAnswer(answerID)
	if err != nil {
		return nil, err
	}

	question, err := a.db.GetQuestion(answer.QuestionID)
	if err != nil {
		return nil, err
	}

	groundTruthTexts, err := a.db.ListTextsByParent(models.ParentQuestion, question.ID)
	if err != nil {
		return nil, err
	}
	groundTruths := make([]string, 0, len(groundTruthTexts))
	for _, t := range groundTruthTexts {
		groundTruths = append(groundTruths, t.Body)
	}

	resp, err := a.gateway.AnalyzeAnswer(ctx, mlp.AnalysisRequest{
		TaskID:   answer.ID,
		VideoURL: mlp.Locator{Bucket: answer.Bucket, Key: answer.VideoPath},
		AudioURL: mlp.Locator{Bucket: answer.Bucket, Key: answer.AudioPath},
		Question: mlp.QuestionPayload{
			Question:     question.QuestionContext,
			GroundTruths: groundTruths,
			Topic:        question.Topic,
		},
	})
	if err != nil {
		return nil, err
	}

	updated, err := a.db.ApplyAnalysis(answer.ID, models.AnswerAnalysis{
		OverallScore:       resp.OverallScore,
		ConfidenceScore:    resp.ConfidenceScore,
		TextRelevancyScore: resp.TextRelevancyScore,
		ProfessionalScore:  resp.ProfessionalScore,
		FluencyScore:       resp.FluencyScore,
		HasBadWords:        resp.HasBadWords,
		EmotionFromText:    resp.EmotionFromText,
		EmotionFromAudio:   resp.EmotionFromAudio,
		EmotionFromVideo:   resp.EmotionFromVideo,
	})
	if err != nil {
		return nil, err
	}

	metrics.AnswersAnalyzed.Inc()
	logger.Info("Answer analysis applied",
		zap.String("answer_id", answer.ID),
		zap.String("question_id", question.ID),
	)
	return updated, nil
}
