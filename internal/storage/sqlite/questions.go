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

const questionColumns = `id, avatar_generation_id, resume_id, jd_id, session_id, question_context, topic, is_used, is_answered, created_at`

func (c *Client) InsertQuestion(q *models.Question) error {
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO questions (id, avatar_generation_id, resume_id, jd_id, session_id, question_context, topic, is_used, is_answered, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := c.db.Exec(
		query,
		q.ID,
		q.AvatarGenerationID,
		q.ResumeID,
		q.JobDescriptionID,
		q.SessionID,
		q.QuestionContext,
		q.Topic,
		boolToInt(q.IsUsed),
		boolToInt(q.IsAnswered),
		q.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}

	logger.Debug("Question inserted",
		zap.String("question_id", q.ID),
		zap.String("session_id", q.SessionID),
	)
	return nil
}

func (c *Client) GetQuestion(id string) (*models.Question, error) {
	row := c.db.QueryRow(`SELECT `+questionColumns+` FROM questions WHERE id = ?`, id)
	return scanQuestion(row)
}

func (c *Client) PatchQuestion(id string, patch models.QuestionPatch) (*models.Question, error) {
	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	if patch.QuestionContext != nil {
		sets = append(sets, "question_context = ?")
		args = append(args, *patch.QuestionContext)
	}
	if patch.Topic != nil {
		sets = append(sets, "topic = ?")
		args = append(args, *patch.Topic)
	}
	if patch.IsUsed != nil {
		sets = append(sets, "is_used = ?")
		args = append(args, boolToInt(*patch.IsUsed))
	}
	if patch.IsAnswered != nil {
		sets = append(sets, "is_answered = ?")
		args = append(args, boolToInt(*patch.IsAnswered))
	}
	if len(sets) == 0 {
		return c.GetQuestion(id)
	}
	args = append(args, id)

	res, err := c.db.Exec(`UPDATE questions SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to patch question: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return nil, fmt.Errorf("%w: question %s", models.ErrNotFound, id)
	}
	return c.GetQuestion(id)
}

func (c *Client) DeleteQuestion(id string) error {
	res, err := c.db.Exec(`DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("%w: question %s", models.ErrNotFound, id)
	}
	return nil
}

func (c *Client) ListQuestions() ([]*models.Question, error) {
	return c.queryQuestions(`SELECT ` + questionColumns + ` FROM questions ORDER BY created_at`)
}

func (c *Client) ListQuestionsBySession(sessionID string) ([]*models.Question, error) {
	return c.queryQuestions(
		`SELECT `+questionColumns+` FROM questions WHERE session_id = ? ORDER BY created_at`, sessionID)
}

// ListEligibleQuestions returns the session's questions whose avatar
// generation is owned by the interviewer and typed "generated". Ownership of
// a question is transitive through its avatar, not stored on the question.
func (c *Client) ListEligibleQuestions(sessionID, interviewerID string) ([]*models.Question, error) {
	query := `
		SELECT q.id, q.avatar_generation_id, q.resume_id, q.jd_id, q.session_id,
		       q.question_context, q.topic, q.is_used, q.is_answered, q.created_at
		FROM questions q
		JOIN generations g ON g.id = q.avatar_generation_id
		WHERE q.session_id = ? AND g.user_id = ? AND g.type = ?
		ORDER BY q.created_at
	`
	return c.queryQuestions(query, sessionID, interviewerID, string(models.GenerationGenerated))
}

func (c *Client) queryQuestions(query string, args ...interface{}) ([]*models.Question, error) {
	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	questions := make([]*models.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func scanQuestion(row rowScanner) (*models.Question, error) {
	var q models.Question
	var context sql.NullString
	var isUsed, isAnswered int
	var createdAt int64

	err := row.Scan(
		&q.ID,
		&q.AvatarGenerationID,
		&q.ResumeID,
		&q.JobDescriptionID,
		&q.SessionID,
		&context,
		&q.Topic,
		&isUsed,
		&isAnswered,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: question", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan question: %w", err)
	}

	q.QuestionContext = context.String
	q.IsUsed = isUsed != 0
	q.IsAnswered = isAnswered != 0
	q.CreatedAt = time.Unix(createdAt, 0)
	return &q, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
