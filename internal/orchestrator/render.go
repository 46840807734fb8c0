package orchestrator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/interview-studio/backend/internal/events"
	"github.com/interview-studio/backend/internal/metrics"
	"github.com/interview-studio/backend/internal/mlp"
	"github.com/interview-studio/backend/internal/storage/models"
	"github.com/interview-studio/backend/pkg/logger"
)

// Render task correlation: the task id on the wire is always the generation's
// own id. Submit marks the generation pending; the pipeline's out-of-band
// callback lands in ReceiveRender, which merges the artifact location back
// onto the same row.

const pendingTTL = 30 * time.Minute

type SubmitRenderRequest struct {
	TaskID   string `json:"task_id"`
	Bucket   string `json:"bucket_name"`
	VideoKey string `json:"video_key,omitempty"`
	AudioKey string `json:"audio_key,omitempty"`
	ImageKey string `json:"image_key,omitempty"`
	Text     string `json:"text,omitempty"`
}

// SubmitRender forwards a rendering task for an existing generation. Asset
// kinds without a key are omitted from the locator bundle.
func (o *Orchestrator) SubmitRender(ctx context.Context, req SubmitRenderRequest) (*mlp.RenderAck, error) {
	if _, err := o.db.GetGeneration(req.TaskID); err != nil {
		return nil, err
	}

	renderReq := mlp.RenderRequest{TaskID: req.TaskID, Text: req.Text}
	if req.VideoKey != "" {
		renderReq.VideoURL = &mlp.Locator{Bucket: req.Bucket, Key: req.VideoKey}
	}
	if req.AudioKey != "" {
		renderReq.AudioURL = &mlp.Locator{Bucket: req.Bucket, Key: req.AudioKey}
	}
	if req.ImageKey != "" {
		renderReq.ImageURL = &mlp.Locator{Bucket: req.Bucket, Key: req.ImageKey}
	}

	return o.submitRenderTask(ctx, req.TaskID, renderReq)
}

func (o *Orchestrator) submitRenderTask(ctx context.Context, taskID string, req mlp.RenderRequest) (*mlp.RenderAck, error) {
	fresh, err := o.pending.MarkRenderPending(ctx, taskID, pendingTTL)
	if err != nil {
		logger.Warn("Render pending tracking unavailable", zap.Error(err))
	} else if !fresh {
		logger.Info("Render task already pending, submitting anyway",
			zap.String("task_id", taskID),
		)
	}

	ack, err := o.gateway.SubmitRender(ctx, req)
	if err != nil {
		metrics.RenderTasks.WithLabelValues("failed").Inc()
		return nil, err
	}

	pending := models.RenderPending
	if _, err := o.db.PatchGeneration(taskID, models.GenerationPatch{RenderState: &pending}); err != nil {
		return nil, err
	}

	metrics.RenderTasks.WithLabelValues("submitted").Inc()
	logger.Info("Render task submitted", zap.String("task_id", taskID))
	return ack, nil
}

// ReceiveRender reconciles a pipeline callback against the pending
// generation. An unknown task id is NotFound; no row is ever created here.
func (o *Orchestrator) ReceiveRender(ctx context.Context, result mlp.RenderResult) (*models.Generation, error) {
	ready := models.RenderReady
	patch := models.GenerationPatch{
		Bucket:      &result.VideoURL.Bucket,
		ObjectPath:  &result.VideoURL.Key,
		RenderState: &ready,
	}

	gen, err := o.db.PatchGeneration(result.TaskID, patch)
	if err != nil {
		return nil, err
	}

	if err := o.pending.ClearRenderPending(ctx, result.TaskID); err != nil {
		logger.Warn("Failed to clear pending render marker", zap.Error(err))
	}

	metrics.RenderTasks.WithLabelValues("completed").Inc()
	logger.Info("Render artifact reconciled",
		zap.String("task_id", result.TaskID),
		zap.String("bucket", result.VideoURL.Bucket),
		zap.String("path", result.VideoURL.Key),
	)

	if o.hub != nil {
		o.hub.Publish(gen.UserID, events.Event{
			Type:   events.TypeRenderCompleted,
			TaskID: gen.ID,
		})
	}

	return gen, nil
}
