package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/interview-studio/backend/internal/storage/models"
	"github.com/interview-studio/backend/pkg/logger"
)

const generationColumns = `id, user_id, video_id, audio_id, image_id, bucket, object_path, type, render_state, created_at`

func (c *Client) InsertGeneration(gen *models.Generation) error {
	if !gen.Type.Valid() {
		return fmt.Errorf("%w: generation type %q", models.ErrInvalidInput, gen.Type)
	}
	if gen.RenderState == "" {
		gen.RenderState = models.RenderNone
	}
	if gen.CreatedAt.IsZero() {
		gen.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO generations (id, user_id, video_id, audio_id, image_id, bucket, object_path, type, render_state, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := c.db.Exec(
		query,
		gen.ID,
		gen.UserID,
		gen.VideoID,
		gen.AudioID,
		gen.ImageID,
		gen.Bucket,
		gen.ObjectPath,
		string(gen.Type),
		string(gen.RenderState),
		gen.CreatedAt.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: base generation already exists for user %s", models.ErrConflict, gen.UserID)
		}
		return fmt.Errorf("failed to insert generation: %w", err)
	}

	logger.Debug("Generation inserted",
		zap.String("generation_id", gen.ID),
		zap.String("type", string(gen.Type)),
	)
	return nil
}

// UpsertGeneration inserts the record when the id is new, otherwise applies
// the patch onto the existing row.
func (c *Client) UpsertGeneration(gen *models.Generation, patch models.GenerationPatch) (*models.Generation, error) {
	existing, err := c.GetGeneration(gen.ID)
	if errors.Is(err, models.ErrNotFound) {
		if insertErr := c.InsertGeneration(gen); insertErr != nil {
			return nil, insertErr
		}
		return c.GetGeneration(gen.ID)
	}
	if err != nil {
		return nil, err
	}

	if patch.Empty() {
		return existing, nil
	}
	return c.PatchGeneration(gen.ID, patch)
}

func (c *Client) GetGeneration(id string) (*models.Generation, error) {
	row := c.db.QueryRow(`SELECT `+generationColumns+` FROM generations WHERE id = ?`, id)
	return scanGeneration(row)
}

// PatchGeneration applies the non-nil fields of patch to the record.
func (c *Client) PatchGeneration(id string, patch models.GenerationPatch) (*models.Generation, error) {
	if patch.Type != nil && !patch.Type.Valid() {
		return nil, fmt.Errorf("%w: generation type %q", models.ErrInvalidInput, *patch.Type)
	}

	sets := make([]string, 0, 7)
	args := make([]interface{}, 0, 8)
	appendSet := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if patch.VideoID != nil {
		appendSet("video_id", *patch.VideoID)
	}
	if patch.AudioID != nil {
		appendSet("audio_id", *patch.AudioID)
	}
	if patch.ImageID != nil {
		appendSet("image_id", *patch.ImageID)
	}
	if patch.Bucket != nil {
		appendSet("bucket", *patch.Bucket)
	}
	if patch.ObjectPath != nil {
		appendSet("object_path", *patch.ObjectPath)
	}
	if patch.Type != nil {
		appendSet("type", string(*patch.Type))
	}
	if patch.RenderState != nil {
		appendSet("render_state", string(*patch.RenderState))
	}
	if len(sets) == 0 {
		return c.GetGeneration(id)
	}
	args = append(args, id)

	res, err := c.db.Exec(`UPDATE generations SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: base generation already exists", models.ErrConflict)
		}
		return nil, fmt.Errorf("failed to patch generation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to patch generation: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: generation %s", models.ErrNotFound, id)
	}

	return c.GetGeneration(id)
}

// SetGenerationType changes the type of the target generation. Promoting to
// base demotes the owner's current base generation in the same transaction,
// so the single-base invariant holds even with the partial unique index
// checked mid-flight.
func (c *Client) SetGenerationType(id string, newType models.GenerationType) (*models.Generation, error) {
	if !newType.Valid() {
		return nil, fmt.Errorf("%w: generation type %q", models.ErrInvalidInput, newType)
	}

	tx, err := c.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var userID string
	err = tx.QueryRow(`SELECT user_id FROM generations WHERE id = ?`, id).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: generation %s", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read generation: %w", err)
	}

	if newType == models.GenerationBase {
		_, err = tx.Exec(
			`UPDATE generations SET type = ? WHERE user_id = ? AND type = ? AND id != ?`,
			string(models.GenerationGenerated), userID, string(models.GenerationBase), id,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to demote base generation: %w", err)
		}
	}

	_, err = tx.Exec(`UPDATE generations SET type = ? WHERE id = ?`, string(newType), id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: base generation already exists for user %s", models.ErrConflict, userID)
		}
		return nil, fmt.Errorf("failed to set generation type: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: base generation already exists for user %s", models.ErrConflict, userID)
		}
		return nil, fmt.Errorf("failed to commit type change: %w", err)
	}

	logger.Info("Generation type changed",
		zap.String("generation_id", id),
		zap.String("type", string(newType)),
	)

	return c.GetGeneration(id)
}

func (c *Client) DeleteGeneration(id string) error {
	res, err := c.db.Exec(`DELETE FROM generations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete generation: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("%w: generation %s", models.ErrNotFound, id)
	}
	return nil
}

func (c *Client) ListGenerations() ([]*models.Generation, error) {
	return c.queryGenerations(`SELECT ` + generationColumns + ` FROM generations ORDER BY created_at`)
}

// ListGenerationsByOwner filters by owner, and by type when typeFilter is
// non-empty.
func (c *Client) ListGenerationsByOwner(userID string, typeFilter models.GenerationType) ([]*models.Generation, error) {
	if typeFilter == "" {
		return c.queryGenerations(
			`SELECT `+generationColumns+` FROM generations WHERE user_id = ? ORDER BY created_at`, userID)
	}
	return c.queryGenerations(
		`SELECT `+generationColumns+` FROM generations WHERE user_id = ? AND type = ? ORDER BY created_at`,
		userID, string(typeFilter))
}

func (c *Client) ListBaseGenerations() ([]*models.Generation, error) {
	return c.queryGenerations(
		`SELECT `+generationColumns+` FROM generations WHERE type = ? ORDER BY created_at`,
		string(models.GenerationBase))
}

func (c *Client) GenerationTypeExists(userID string, genType models.GenerationType) (bool, error) {
	var count int
	err := c.db.QueryRow(
		`SELECT COUNT(1) FROM generations WHERE user_id = ? AND type = ?`,
		userID, string(genType),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to count generations: %w", err)
	}
	return count > 0, nil
}

func (c *Client) queryGenerations(query string, args ...interface{}) ([]*models.Generation, error) {
	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query generations: %w", err)
	}
	defer rows.Close()

	generations := make([]*models.Generation, 0)
	for rows.Next() {
		gen, err := scanGeneration(rows)
		if err != nil {
			return nil, err
		}
		generations = append(generations, gen)
	}
	return generations, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGeneration(row rowScanner) (*models.Generation, error) {
	var gen models.Generation
	var videoID, audioID, imageID, bucket, objectPath sql.NullString
	var genType, renderState string
	var createdAt int64

	err := row.Scan(
		&gen.ID,
		&gen.UserID,
		&videoID,
		&audioID,
		&imageID,
		&bucket,
		&objectPath,
		&genType,
		&renderState,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: generation", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan generation: %w", err)
	}

	gen.VideoID = videoID.String
	gen.AudioID = audioID.String
	gen.ImageID = imageID.String
	gen.Bucket = bucket.String
	gen.ObjectPath = objectPath.String
	gen.Type = models.GenerationType(genType)
	gen.RenderState = models.RenderState(renderState)
	gen.CreatedAt = time.Unix(createdAt, 0)
	return &gen, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}
