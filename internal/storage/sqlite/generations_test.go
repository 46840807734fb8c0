package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interview-studio/backend/internal/storage/models"
)

func TestInsertAndGetGeneration(t *testing.T) {
	client := newTestClient(t)

	gen := &models.Generation{
		ID:      "gen-1",
		UserID:  "user-1",
		VideoID: "vid-1",
		AudioID: "aud-1",
		Type:    models.GenerationBase,
	}
	require.NoError(t, client.InsertGeneration(gen))

	got, err := client.GetGeneration("gen-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "vid-1", got.VideoID)
	assert.Equal(t, models.GenerationBase, got.Type)
	assert.Equal(t, models.RenderNone, got.RenderState)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestInsertGenerationInvalidType(t *testing.T) {
	client := newTestClient(t)

	err := client.InsertGeneration(&models.Generation{
		ID:     "gen-bad",
		UserID: "user-1",
		Type:   "avatar",
	})
	require.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestGetGenerationNotFound(t *testing.T) {
	client := newTestClient(t)

	_, err := client.GetGeneration("missing")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestSingleBaseGenerationPerUser(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.InsertGeneration(&models.Generation{
		ID: "base-1", UserID: "user-1", Type: models.GenerationBase,
	}))

	err := client.InsertGeneration(&models.Generation{
		ID: "base-2", UserID: "user-1", Type: models.GenerationBase,
	})
	require.ErrorIs(t, err, models.ErrConflict)

	// A different user is unaffected.
	require.NoError(t, client.InsertGeneration(&models.Generation{
		ID: "base-3", UserID: "user-2", Type: models.GenerationBase,
	}))

	// Non-base records for the same user are unaffected too.
	require.NoError(t, client.InsertGeneration(&models.Generation{
		ID: "gen-1", UserID: "user-1", Type: models.GenerationGenerated,
	}))
	require.NoError(t, client.InsertGeneration(&models.Generation{
		ID: "gen-2", UserID: "user-1", Type: models.GenerationGenerated,
	}))
}

func TestSetGenerationTypeDemotesPreviousBase(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.InsertGeneration(&models.Generation{
		ID: "old-base", UserID: "user-1", Type: models.GenerationBase,
	}))
	require.NoError(t, client.InsertGeneration(&models.Generation{
		ID: "candidate", UserID: "user-1", Type: models.GenerationGenerated,
	}))

	promoted, err := client.SetGenerationType("candidate", models.GenerationBase)
	require.NoError(t, err)
	assert.Equal(t, models.GenerationBase, promoted.Type)

	demoted, err := client.GetGeneration("old-base")
	require.NoError(t, err)
	assert.Equal(t, models.GenerationGenerated, demoted.Type)

	bases, err := client.ListGenerationsByOwner("user-1", models.GenerationBase)
	require.NoError(t, err)
	require.Len(t, bases, 1)
	assert.Equal(t, "candidate", bases[0].ID)
}

func TestSetGenerationTypeSelfPromotion(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.InsertGeneration(&models.Generation{
		ID: "base-1", UserID: "user-1", Type: models.GenerationBase,
	}))

	// Promoting the current base again must not demote it.
	gen, err := client.SetGenerationType("base-1", models.GenerationBase)
	require.NoError(t, err)
	assert.Equal(t, models.GenerationBase, gen.Type)
}

func TestSetGenerationTypeValidation(t *testing.T) {
	client := newTestClient(t)

	_, err := client.SetGenerationType("gen-1", "avatar")
	require.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = client.SetGenerationType("missing", models.GenerationBase)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestPatchGeneration(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.InsertGeneration(&models.Generation{
		ID: "gen-1", UserID: "user-1", Type: models.GenerationGenerated,
		Bucket: "bucket-a", ObjectPath: "path/a",
	}))

	empty := ""
	pending := models.RenderPending
	got, err := client.PatchGeneration("gen-1", models.GenerationPatch{
		Bucket:      &empty,
		RenderState: &pending,
	})
	require.NoError(t, err)

	// A pointer to the zero value clears the field; nil leaves it alone.
	assert.Equal(t, "", got.Bucket)
	assert.Equal(t, "path/a", got.ObjectPath)
	assert.Equal(t, models.RenderPending, got.RenderState)
}

func TestPatchGenerationNotFound(t *testing.T) {
	client := newTestClient(t)

	video := "vid-1"
	_, err := client.PatchGeneration("missing", models.GenerationPatch{VideoID: &video})
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpsertGeneration(t *testing.T) {
	client := newTestClient(t)

	gen := &models.Generation{
		ID: "gen-1", UserID: "user-1", VideoID: "vid-1",
		Type: models.GenerationGenerated,
	}
	created, err := client.UpsertGeneration(gen, models.GenerationPatch{})
	require.NoError(t, err)
	assert.Equal(t, "vid-1", created.VideoID)

	// Same id again patches the existing row instead of inserting.
	video := "vid-2"
	updated, err := client.UpsertGeneration(gen, models.GenerationPatch{VideoID: &video})
	require.NoError(t, err)
	assert.Equal(t, "vid-2", updated.VideoID)

	all, err := client.ListGenerations()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGenerationTypeExists(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.InsertGeneration(&models.Generation{
		ID: "base-1", UserID: "user-1", Type: models.GenerationBase,
	}))

	exists, err := client.GenerationTypeExists("user-1", models.GenerationBase)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = client.GenerationTypeExists("user-1", models.GenerationIntro)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = client.GenerationTypeExists("user-2", models.GenerationBase)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListGenerationsByOwner(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.InsertGeneration(&models.Generation{
		ID: "base-1", UserID: "user-1", Type: models.GenerationBase,
	}))
	require.NoError(t, client.InsertGeneration(&models.Generation{
		ID: "gen-1", UserID: "user-1", Type: models.GenerationGenerated,
	}))
	require.NoError(t, client.InsertGeneration(&models.Generation{
		ID: "gen-2", UserID: "user-2", Type: models.GenerationGenerated,
	}))

	all, err := client.ListGenerationsByOwner("user-1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	generated, err := client.ListGenerationsByOwner("user-1", models.GenerationGenerated)
	require.NoError(t, err)
	require.Len(t, generated, 1)
	assert.Equal(t, "gen-1", generated[0].ID)
}

func TestDeleteGeneration(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.InsertGeneration(&models.Generation{
		ID: "gen-1", UserID: "user-1", Type: models.GenerationGenerated,
	}))

	require.NoError(t, client.DeleteGeneration("gen-1"))
	require.ErrorIs(t, client.DeleteGeneration("gen-1"), models.ErrNotFound)
}
