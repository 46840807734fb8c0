package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/interview-studio/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	// DSN parameters apply to every pooled connection; a plain PRAGMA exec
	// would only configure the connection that happened to run it.
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS resumes (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		full_name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone_number TEXT,
		description TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_resumes_user ON resumes(user_id);

	CREATE TABLE IF NOT EXISTS job_descriptions (
		id TEXT PRIMARY KEY,
		title TEXT,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS assets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		file_name TEXT NOT NULL,
		extension TEXT NOT NULL,
		language TEXT,
		size INTEGER NOT NULL DEFAULT 0,
		duration INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_assets_user ON assets(user_id, kind);

	CREATE TABLE IF NOT EXISTS generations (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		video_id TEXT,
		audio_id TEXT,
		image_id TEXT,
		bucket TEXT,
		object_path TEXT,
		type TEXT NOT NULL DEFAULT 'generated',
		render_state TEXT NOT NULL DEFAULT 'none',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_generations_user ON generations(user_id, type);
	CREATE UNIQUE INDEX IF NOT EXISTS ux_generations_single_base
		ON generations(user_id) WHERE type = 'base';

	CREATE TABLE IF NOT EXISTS interview_sessions (
		id TEXT PRIMARY KEY,
		resume_id TEXT NOT NULL,
		jd_id TEXT NOT NULL,
		interviewer_id TEXT,
		interviewee_id TEXT,
		status TEXT NOT NULL DEFAULT 'created',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_resume_jd ON interview_sessions(resume_id, jd_id);

	CREATE TABLE IF NOT EXISTS questions (
		id TEXT PRIMARY KEY,
		avatar_generation_id TEXT NOT NULL,
		resume_id TEXT NOT NULL,
		jd_id TEXT NOT NULL,
		session_id TEXT NOT NULL,
		question_context TEXT,
		topic INTEGER NOT NULL DEFAULT 0,
		is_used INTEGER NOT NULL DEFAULT 0,
		is_answered INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (avatar_generation_id) REFERENCES generations(id)
	);
	CREATE INDEX IF NOT EXISTS idx_questions_session ON questions(session_id);
	CREATE INDEX IF NOT EXISTS idx_questions_generation ON questions(avatar_generation_id);

	CREATE TABLE IF NOT EXISTS texts (
		id TEXT PRIMARY KEY,
		parent_kind TEXT NOT NULL,
		parent_id TEXT NOT NULL,
		body TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_texts_parent ON texts(parent_kind, parent_id);

	CREATE TABLE IF NOT EXISTS answers (
		id TEXT PRIMARY KEY,
		question_id TEXT NOT NULL,
		bucket TEXT NOT NULL,
		video_path TEXT NOT NULL,
		audio_path TEXT NOT NULL,
		overall_score REAL NOT NULL DEFAULT 0,
		confidence_score REAL NOT NULL DEFAULT 0,
		text_relevancy_score REAL NOT NULL DEFAULT 0,
		professional_score REAL NOT NULL DEFAULT 0,
		fluency_score REAL NOT NULL DEFAULT 0,
		has_bad_words INTEGER NOT NULL DEFAULT 0,
		emotion_from_text TEXT NOT NULL DEFAULT '',
		emotion_from_audio TEXT NOT NULL DEFAULT '',
		emotion_from_video TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		FOREIGN KEY (question_id) REFERENCES questions(id)
	);
	CREATE INDEX IF NOT EXISTS idx_answers_question ON answers(question_id);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}
