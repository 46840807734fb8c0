package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/interview-studio/backend/internal/storage/models"
)

func (c *Client) InsertResume(r *models.Resume) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := c.db.Exec(
		`INSERT INTO resumes (id, user_id, full_name, email, phone_number, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.FullName, r.Email, r.PhoneNumber, r.Description, r.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert resume: %w", err)
	}
	return nil
}

func (c *Client) GetResume(id string) (*models.Resume, error) {
	var r models.Resume
	var phone, description sql.NullString
	var createdAt int64
	err := c.db.QueryRow(
		`SELECT id, user_id, full_name, email, phone_number, description, created_at FROM resumes WHERE id = ?`, id,
	).Scan(&r.ID, &r.UserID, &r.FullName, &r.Email, &phone, &description, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: resume %s", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	r.PhoneNumber = phone.String
	r.Description = description.String
	r.CreatedAt = time.Unix(createdAt, 0)
	return &r, nil
}

func (c *Client) InsertJobDescription(jd *models.JobDescription) error {
	if jd.CreatedAt.IsZero() {
		jd.CreatedAt = time.Now()
	}
	_, err := c.db.Exec(
		`INSERT INTO job_descriptions (id, title, created_at) VALUES (?, ?, ?)`,
		jd.ID, jd.Title, jd.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert job description: %w", err)
	}
	return nil
}

func (c *Client) GetJobDescription(id string) (*models.JobDescription, error) {
	var jd models.JobDescription
	var title sql.NullString
	var createdAt int64
	err := c.db.QueryRow(
		`SELECT id, title, created_at FROM job_descriptions WHERE id = ?`, id,
	).Scan(&jd.ID, &title, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: job description %s", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job description: %w", err)
	}
	jd.Title = title.String
	jd.CreatedAt = time.Unix(createdAt, 0)
	return &jd, nil
}

func (c *Client) InsertAsset(a *models.Asset) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	_, err := c.db.Exec(
		`INSERT INTO assets (id, user_id, kind, file_name, extension, language, size, duration, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, string(a.Kind), a.FileName, a.Extension, a.Language, a.Size, a.Duration, a.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert asset: %w", err)
	}
	return nil
}

func (c *Client) GetAsset(id string) (*models.Asset, error) {
	var a models.Asset
	var kind string
	var language sql.NullString
	var createdAt int64
	err := c.db.QueryRow(
		`SELECT id, user_id, kind, file_name, extension, language, size, duration, created_at FROM assets WHERE id = ?`, id,
	).Scan(&a.ID, &a.UserID, &kind, &a.FileName, &a.Extension, &language, &a.Size, &a.Duration, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: asset %s", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	a.Kind = models.AssetKind(kind)
	a.Language = language.String
	a.CreatedAt = time.Unix(createdAt, 0)
	return &a, nil
}

func (c *Client) ListAssetsByOwner(userID string, kind models.AssetKind) ([]*models.Asset, error) {
	rows, err := c.db.Query(
		`SELECT id, user_id, kind, file_name, extension, language, size, duration, created_at
		 FROM assets WHERE user_id = ? AND kind = ? ORDER BY created_at`,
		userID, string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	assets := make([]*models.Asset, 0)
	for rows.Next() {
		var a models.Asset
		var k string
		var language sql.NullString
		var createdAt int64
		if err := rows.Scan(&a.ID, &a.UserID, &k, &a.FileName, &a.Extension, &language, &a.Size, &a.Duration, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		a.Kind = models.AssetKind(k)
		a.Language = language.String
		a.CreatedAt = time.Unix(createdAt, 0)
		assets = append(assets, &a)
	}
	return assets, rows.Err()
}
