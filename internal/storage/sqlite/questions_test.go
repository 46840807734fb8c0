package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interview-studio/backend/internal/storage/models"
)

func seedQuestion(t *testing.T, client *Client, id, sessionID, ownerID string, genType models.GenerationType) {
	t.Helper()

	genID := "gen-for-" + id
	require.NoError(t, client.InsertGeneration(&models.Generation{
		ID:     genID,
		UserID: ownerID,
		Type:   genType,
	}))
	require.NoError(t, client.InsertQuestion(&models.Question{
		ID:                 id,
		AvatarGenerationID: genID,
		ResumeID:           "cv-1",
		JobDescriptionID:   "jd-1",
		SessionID:          sessionID,
		QuestionContext:    "Tell me about " + id,
	}))
}

func TestInsertAndGetQuestion(t *testing.T) {
	client := newTestClient(t)
	seedQuestion(t, client, "q-1", "session-1", "interviewer-1", models.GenerationGenerated)

	got, err := client.GetQuestion("q-1")
	require.NoError(t, err)
	assert.Equal(t, "session-1", got.SessionID)
	assert.Equal(t, "gen-for-q-1", got.AvatarGenerationID)
	assert.False(t, got.IsUsed)
	assert.False(t, got.IsAnswered)
}

func TestInsertQuestionUnknownGeneration(t *testing.T) {
	client := newTestClient(t)

	err := client.InsertQuestion(&models.Question{
		ID:                 "q-orphan",
		AvatarGenerationID: "missing",
		ResumeID:           "cv-1",
		JobDescriptionID:   "jd-1",
		SessionID:          "session-1",
	})
	require.Error(t, err)
}

func TestPatchQuestion(t *testing.T) {
	client := newTestClient(t)
	seedQuestion(t, client, "q-1", "session-1", "interviewer-1", models.GenerationGenerated)

	used := true
	answered := false
	got, err := client.PatchQuestion("q-1", models.QuestionPatch{
		IsUsed:     &used,
		IsAnswered: &answered,
	})
	require.NoError(t, err)
	assert.True(t, got.IsUsed)
	assert.False(t, got.IsAnswered)

	// Context untouched by the partial patch.
	assert.Equal(t, "Tell me about q-1", got.QuestionContext)

	_, err = client.PatchQuestion("missing", models.QuestionPatch{IsUsed: &used})
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestListEligibleQuestionsScoping(t *testing.T) {
	client := newTestClient(t)

	seedQuestion(t, client, "q-mine-1", "session-1", "interviewer-a", models.GenerationGenerated)
	seedQuestion(t, client, "q-mine-2", "session-1", "interviewer-a", models.GenerationGenerated)

	// Another interviewer's question in the same session is out of scope.
	seedQuestion(t, client, "q-theirs", "session-1", "interviewer-b", models.GenerationGenerated)

	// Same owner, different session.
	seedQuestion(t, client, "q-elsewhere", "session-2", "interviewer-a", models.GenerationGenerated)

	// Avatar still typed base does not qualify even for the right owner.
	seedQuestion(t, client, "q-base-avatar", "session-1", "interviewer-a", models.GenerationBase)

	eligible, err := client.ListEligibleQuestions("session-1", "interviewer-a")
	require.NoError(t, err)

	ids := make([]string, 0, len(eligible))
	for _, q := range eligible {
		ids = append(ids, q.ID)
	}
	assert.ElementsMatch(t, []string{"q-mine-1", "q-mine-2"}, ids)
}

func TestListEligibleQuestionsEmpty(t *testing.T) {
	client := newTestClient(t)

	eligible, err := client.ListEligibleQuestions("session-1", "interviewer-a")
	require.NoError(t, err)
	assert.Empty(t, eligible)
}

func TestListQuestionsBySession(t *testing.T) {
	client := newTestClient(t)

	seedQuestion(t, client, "q-1", "session-1", "interviewer-a", models.GenerationGenerated)
	seedQuestion(t, client, "q-2", "session-2", "interviewer-a", models.GenerationGenerated)

	questions, err := client.ListQuestionsBySession("session-1")
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "q-1", questions[0].ID)
}

func TestDeleteQuestion(t *testing.T) {
	client := newTestClient(t)
	seedQuestion(t, client, "q-1", "session-1", "interviewer-a", models.GenerationGenerated)

	require.NoError(t, client.DeleteQuestion("q-1"))
	require.ErrorIs(t, client.DeleteQuestion("q-1"), models.ErrNotFound)
}
