package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/interview-studio/backend/internal/storage/models"
)

func (c *Client) InsertText(t *models.Text) error {
	if !t.ParentKind.Valid() {
		return fmt.Errorf("%w: text parent kind %q", models.ErrInvalidInput, t.ParentKind)
	}

	_, err := c.db.Exec(
		`INSERT INTO texts (id, parent_kind, parent_id, body) VALUES (?, ?, ?, ?)`,
		t.ID, string(t.ParentKind), t.ParentID, t.Body,
	)
	if err != nil {
		return fmt.Errorf("failed to insert text: %w", err)
	}
	return nil
}

func (c *Client) GetText(id string) (*models.Text, error) {
	row := c.db.QueryRow(`SELECT id, parent_kind, parent_id, body FROM texts WHERE id = ?`, id)
	return scanText(row)
}

func (c *Client) UpdateTextBody(id, body string) (*models.Text, error) {
	res, err := c.db.Exec(`UPDATE texts SET body = ? WHERE id = ?`, body, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update text: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return nil, fmt.Errorf("%w: text %s", models.ErrNotFound, id)
	}
	return c.GetText(id)
}

func (c *Client) DeleteText(id string) error {
	res, err := c.db.Exec(`DELETE FROM texts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete text: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("%w: text %s", models.ErrNotFound, id)
	}
	return nil
}

func (c *Client) ListTextsByParent(kind models.ParentKind, parentID string) ([]*models.Text, error) {
	rows, err := c.db.Query(
		`SELECT id, parent_kind, parent_id, body FROM texts WHERE parent_kind = ? AND parent_id = ? ORDER BY rowid`,
		string(kind), parentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query texts: %w", err)
	}
	defer rows.Close()

	texts := make([]*models.Text, 0)
	for rows.Next() {
		t, err := scanText(rows)
		if err != nil {
			return nil, err
		}
		texts = append(texts, t)
	}
	return texts, rows.Err()
}

func scanText(row rowScanner) (*models.Text, error) {
	var t models.Text
	var kind string
	err := row.Scan(&t.ID, &kind, &t.ParentID, &t.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: text", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan text: %w", err)
	}
	t.ParentKind = models.ParentKind(kind)
	return &t, nil
}
