package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interview-studio/backend/internal/storage/models"
)

func TestInsertSessionDefaultStatus(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.InsertSession(&models.InterviewSession{
		ID:               "session-1",
		ResumeID:         "cv-1",
		JobDescriptionID: "jd-1",
	}))

	got, err := client.GetSession("session-1")
	require.NoError(t, err)
	assert.Equal(t, "created", got.Status)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestPatchSession(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.InsertSession(&models.InterviewSession{
		ID:               "session-1",
		ResumeID:         "cv-1",
		JobDescriptionID: "jd-1",
	}))

	interviewer := "interviewer-1"
	status := "in_progress"
	got, err := client.PatchSession("session-1", models.SessionPatch{
		InterviewerID: &interviewer,
		Status:        &status,
	})
	require.NoError(t, err)
	assert.Equal(t, "interviewer-1", got.InterviewerID)
	assert.Equal(t, "in_progress", got.Status)
	assert.Empty(t, got.IntervieweeID)

	_, err = client.PatchSession("missing", models.SessionPatch{Status: &status})
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestListSessionsByResumeAndJD(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.InsertSession(&models.InterviewSession{
		ID: "session-1", ResumeID: "cv-1", JobDescriptionID: "jd-1",
	}))
	require.NoError(t, client.InsertSession(&models.InterviewSession{
		ID: "session-2", ResumeID: "cv-1", JobDescriptionID: "jd-2",
	}))

	sessions, err := client.ListSessionsByResumeAndJD("cv-1", "jd-1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "session-1", sessions[0].ID)
}

func TestDeleteSession(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.InsertSession(&models.InterviewSession{
		ID: "session-1", ResumeID: "cv-1", JobDescriptionID: "jd-1",
	}))

	require.NoError(t, client.DeleteSession("session-1"))
	require.ErrorIs(t, client.DeleteSession("session-1"), models.ErrNotFound)
}
