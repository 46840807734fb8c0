package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interview-studio/backend/internal/storage/models"
)

func TestInsertTextValidatesParentKind(t *testing.T) {
	client := newTestClient(t)

	err := client.InsertText(&models.Text{
		ID:         "t-1",
		ParentKind: "session",
		ParentID:   "x",
		Body:       "body",
	})
	require.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestListTextsByParent(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.InsertText(&models.Text{
		ID: "t-1", ParentKind: models.ParentQuestion, ParentID: "q-1", Body: "first truth",
	}))
	require.NoError(t, client.InsertText(&models.Text{
		ID: "t-2", ParentKind: models.ParentQuestion, ParentID: "q-1", Body: "second truth",
	}))
	require.NoError(t, client.InsertText(&models.Text{
		ID: "t-3", ParentKind: models.ParentResume, ParentID: "q-1", Body: "resume chunk",
	}))

	texts, err := client.ListTextsByParent(models.ParentQuestion, "q-1")
	require.NoError(t, err)
	require.Len(t, texts, 2)

	// Insertion order is preserved.
	assert.Equal(t, "first truth", texts[0].Body)
	assert.Equal(t, "second truth", texts[1].Body)
}

func TestUpdateTextBody(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.InsertText(&models.Text{
		ID: "t-1", ParentKind: models.ParentResume, ParentID: "cv-1", Body: "old",
	}))

	got, err := client.UpdateTextBody("t-1", "new")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Body)

	_, err = client.UpdateTextBody("missing", "new")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteText(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.InsertText(&models.Text{
		ID: "t-1", ParentKind: models.ParentResume, ParentID: "cv-1", Body: "body",
	}))

	require.NoError(t, client.DeleteText("t-1"))
	require.ErrorIs(t, client.DeleteText("t-1"), models.ErrNotFound)
}
