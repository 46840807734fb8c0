package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/interview-studio/backend/internal/storage/models"
	"github.com/interview-studio/backend/pkg/logger"
)

const answerColumns = `id, question_id, bucket, video_path, audio_path, overall_score, confidence_score,
	text_relevancy_score, professional_score, fluency_score, has_bad_words,
	emotion_from_text, emotion_from_audio, emotion_from_video, created_at`

func (c *Client) InsertAnswer(a *models.Answer) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO answers (id, question_id, bucket, video_path, audio_path, overall_score, confidence_score,
			text_relevancy_score, professional_score, fluency_score, has_bad_words,
			emotion_from_text, emotion_from_audio, emotion_from_video, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := c.db.Exec(
		query,
		a.ID,
		a.QuestionID,
		a.Bucket,
		a.VideoPath,
		a.AudioPath,
		a.OverallScore,
		a.ConfidenceScore,
		a.TextRelevancyScore,
		a.ProfessionalScore,
		a.FluencyScore,
		boolToInt(a.HasBadWords),
		a.EmotionFromText,
		a.EmotionFromAudio,
		a.EmotionFromVideo,
		a.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert answer: %w", err)
	}

	logger.Debug("Answer inserted",
		zap.String("answer_id", a.ID),
		zap.String("question_id", a.QuestionID),
	)
	return nil
}

func (c *Client) GetAnswer(id string) (*models.Answer, error) {
	row := c.db.QueryRow(`SELECT `+answerColumns+` FROM answers WHERE id = ?`, id)
	return scanAnswer(row)
}

func (c *Client) GetAnswerByQuestion(questionID string) (*models.Answer, error) {
	row := c.db.QueryRow(`SELECT `+answerColumns+` FROM answers WHERE question_id = ?`, questionID)
	return scanAnswer(row)
}

// ApplyAnalysis merges the reported analysis fields onto the answer. Fields
// the callback did not report stay untouched.
func (c *Client) ApplyAnalysis(id string, analysis models.AnswerAnalysis) (*models.Answer, error) {
	sets := make([]string, 0, 9)
	args := make([]interface{}, 0, 10)
	appendSet := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if analysis.OverallScore != nil {
		appendSet("overall_score", *analysis.OverallScore)
	}
	if analysis.ConfidenceScore != nil {
		appendSet("confidence_score", *analysis.ConfidenceScore)
	}
	if analysis.TextRelevancyScore != nil {
		appendSet("text_relevancy_score", *analysis.TextRelevancyScore)
	}
	if analysis.ProfessionalScore != nil {
		appendSet("professional_score", *analysis.ProfessionalScore)
	}
	if analysis.FluencyScore != nil {
		appendSet("fluency_score", *analysis.FluencyScore)
	}
	if analysis.HasBadWords != nil {
		appendSet("has_bad_words", boolToInt(*analysis.HasBadWords))
	}
	if analysis.EmotionFromText != nil {
		appendSet("emotion_from_text", *analysis.EmotionFromText)
	}
	if analysis.EmotionFromAudio != nil {
		appendSet("emotion_from_audio", *analysis.EmotionFromAudio)
	}
	if analysis.EmotionFromVideo != nil {
		appendSet("emotion_from_video", *analysis.EmotionFromVideo)
	}
	if len(sets) == 0 {
		return c.GetAnswer(id)
	}
	args = append(args, id)

	res, err := c.db.Exec(`UPDATE answers SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to apply analysis: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return nil, fmt.Errorf("%w: answer %s", models.ErrNotFound, id)
	}
	return c.GetAnswer(id)
}

func (c *Client) DeleteAnswer(id string) error {
	res, err := c.db.Exec(`DELETE FROM answers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete answer: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("%w: answer %s", models.ErrNotFound, id)
	}
	return nil
}

func (c *Client) ListAnswers() ([]*models.Answer, error) {
	rows, err := c.db.Query(`SELECT ` + answerColumns + ` FROM answers ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer rows.Close()

	answers := make([]*models.Answer, 0)
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func scanAnswer(row rowScanner) (*models.Answer, error) {
	var a models.Answer
	var hasBadWords int
	var createdAt int64

	err := row.Scan(
		&a.ID,
		&a.QuestionID,
		&a.Bucket,
		&a.VideoPath,
		&a.AudioPath,
		&a.OverallScore,
		&a.ConfidenceScore,
		&a.TextRelevancyScore,
		&a.ProfessionalScore,
		&a.FluencyScore,
		&hasBadWords,
		&a.EmotionFromText,
		&a.EmotionFromAudio,
		&a.EmotionFromVideo,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: answer", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan answer: %w", err)
	}

	a.HasBadWords = hasBadWords != 0
	a.CreatedAt = time.Unix(createdAt, 0)
	return &a, nil
}
