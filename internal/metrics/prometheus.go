package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GatewayCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studio_gateway_call_duration_seconds",
			Help:    "ML pipeline call duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"call", "status"},
	)

	GenerationWorkflowDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "studio_question_generation_duration_seconds",
			Help:    "End-to-end question generation workflow duration",
			Buckets: []float64{1, 5, 10, 30, 60, 120},
		},
	)

	QuestionsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "studio_questions_created_total",
			Help: "Questions created by the generation fan-out",
		},
	)

	RenderTasks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_render_tasks_total",
			Help: "Avatar render tasks by stage",
		},
		[]string{"stage"},
	)

	SelectionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_question_selection_total",
			Help: "Question selection calls by status",
		},
		[]string{"status"},
	)

	AnswersAnalyzed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "studio_answers_analyzed_total",
			Help: "Answers scored by the analysis pipeline",
		},
	)
)

func init() {
	prometheus.MustRegister(
		GatewayCallDuration,
		GenerationWorkflowDuration,
		QuestionsCreated,
		RenderTasks,
		SelectionTotal,
		AnswersAnalyzed,
	)
}

func ObserveGatewayCall(call string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	GatewayCallDuration.WithLabelValues(call, status).Observe(d.Seconds())
}

// Handler exposes the prometheus registry as a fiber handler.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
