package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interview-studio/backend/internal/events"
	"github.com/interview-studio/backend/internal/mlp"
	"github.com/interview-studio/backend/internal/storage/models"
)

func TestSubmitRenderUnknownGeneration(t *testing.T) {
	db := newTestDB(t)
	orch := New(db, &fakeGateway{}, nil, nil)

	_, err := orch.SubmitRender(context.Background(), SubmitRenderRequest{
		TaskID: "missing",
		Bucket: "media",
	})
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestRenderRoundTrip(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.InsertGeneration(&models.Generation{
		ID: "gen-1", UserID: "interviewer-1", VideoID: "vid-1", Type: models.GenerationGenerated,
	}))

	gateway := &fakeGateway{}
	hub := events.NewHub()
	doneCh := hub.Subscribe("interviewer-1")
	orch := New(db, gateway, nil, hub)

	ack, err := orch.SubmitRender(context.Background(), SubmitRenderRequest{
		TaskID:   "gen-1",
		Bucket:   "media",
		VideoKey: "video/interviewer-1/vid-1.mp4",
		Text:     "Why Go?",
	})
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS", ack.Status)

	pending, err := db.GetGeneration("gen-1")
	require.NoError(t, err)
	assert.Equal(t, models.RenderPending, pending.RenderState)

	require.Len(t, gateway.renderRequests, 1)
	require.NotNil(t, gateway.renderRequests[0].VideoURL)
	assert.Nil(t, gateway.renderRequests[0].AudioURL)
	assert.Nil(t, gateway.renderRequests[0].ImageURL)

	gen, err := orch.ReceiveRender(context.Background(), mlp.RenderResult{
		TaskID:   "gen-1",
		VideoURL: mlp.Locator{Bucket: "media", Key: "rendered/gen-1.mp4"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.RenderReady, gen.RenderState)
	assert.Equal(t, "media", gen.Bucket)
	assert.Equal(t, "rendered/gen-1.mp4", gen.ObjectPath)

	select {
	case ev := <-doneCh:
		assert.Equal(t, events.TypeRenderCompleted, ev.Type)
		assert.Equal(t, "gen-1", ev.TaskID)
	default:
		t.Fatal("expected render_completed event")
	}
}

func TestReceiveRenderUnknownTask(t *testing.T) {
	db := newTestDB(t)
	orch := New(db, &fakeGateway{}, nil, nil)

	// A callback for an unknown task id never creates a record.
	_, err := orch.ReceiveRender(context.Background(), mlp.RenderResult{
		TaskID:   "missing",
		VideoURL: mlp.Locator{Bucket: "media", Key: "rendered/missing.mp4"},
	})
	require.ErrorIs(t, err, models.ErrNotFound)

	generations, err := db.ListGenerations()
	require.NoError(t, err)
	assert.Empty(t, generations)
}
