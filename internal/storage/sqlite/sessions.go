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

const sessionColumns = `id, resume_id, jd_id, interviewer_id, interviewee_id, status, created_at`

func (c *Client) InsertSession(s *models.InterviewSession) error {
	if s.Status == "" {
		s.Status = "created"
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO interview_sessions (id, resume_id, jd_id, interviewer_id, interviewee_id, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := c.db.Exec(
		query,
		s.ID,
		s.ResumeID,
		s.JobDescriptionID,
		s.InterviewerID,
		s.IntervieweeID,
		s.Status,
		s.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	logger.Info("Interview session created",
		zap.String("session_id", s.ID),
		zap.String("resume_id", s.ResumeID),
		zap.String("jd_id", s.JobDescriptionID),
	)
	return nil
}

func (c *Client) GetSession(id string) (*models.InterviewSession, error) {
	row := c.db.QueryRow(`SELECT `+sessionColumns+` FROM interview_sessions WHERE id = ?`, id)
	return scanSession(row)
}

func (c *Client) PatchSession(id string, patch models.SessionPatch) (*models.InterviewSession, error) {
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	if patch.InterviewerID != nil {
		sets = append(sets, "interviewer_id = ?")
		args = append(args, *patch.InterviewerID)
	}
	if patch.IntervieweeID != nil {
		sets = append(sets, "interviewee_id = ?")
		args = append(args, *patch.IntervieweeID)
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}
	if len(sets) == 0 {
		return c.GetSession(id)
	}
	args = append(args, id)

	res, err := c.db.Exec(`UPDATE interview_sessions SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to patch session: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return nil, fmt.Errorf("%w: session %s", models.ErrNotFound, id)
	}
	return c.GetSession(id)
}

func (c *Client) DeleteSession(id string) error {
	res, err := c.db.Exec(`DELETE FROM interview_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("%w: session %s", models.ErrNotFound, id)
	}
	return nil
}

func (c *Client) ListSessions() ([]*models.InterviewSession, error) {
	return c.querySessions(`SELECT ` + sessionColumns + ` FROM interview_sessions ORDER BY created_at`)
}

func (c *Client) ListSessionsByResumeAndJD(resumeID, jdID string) ([]*models.InterviewSession, error) {
	return c.querySessions(
		`SELECT `+sessionColumns+` FROM interview_sessions WHERE resume_id = ? AND jd_id = ? ORDER BY created_at`,
		resumeID, jdID)
}

func (c *Client) querySessions(query string, args ...interface{}) ([]*models.InterviewSession, error) {
	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*models.InterviewSession, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func scanSession(row rowScanner) (*models.InterviewSession, error) {
	var s models.InterviewSession
	var interviewerID, intervieweeID sql.NullString
	var createdAt int64

	err := row.Scan(
		&s.ID,
		&s.ResumeID,
		&s.JobDescriptionID,
		&interviewerID,
		&intervieweeID,
		&s.Status,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: interview session", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	s.InterviewerID = interviewerID.String
	s.IntervieweeID = intervieweeID.String
	s.CreatedAt = time.Unix(createdAt, 0)
	return &s, nil
}
