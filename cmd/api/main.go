package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/interview-studio/backend/internal/analysis"
	"github.com/interview-studio/backend/internal/api/handlers"
	"github.com/interview-studio/backend/internal/cache/redis"
	"github.com/interview-studio/backend/internal/events"
	"github.com/interview-studio/backend/internal/ingestion"
	"github.com/interview-studio/backend/internal/metrics"
	"github.com/interview-studio/backend/internal/middleware/ratelimit"
	"github.com/interview-studio/backend/internal/middleware/validation"
	"github.com/interview-studio/backend/internal/mlp"
	"github.com/interview-studio/backend/internal/orchestrator"
	"github.com/interview-studio/backend/internal/selection"
	"github.com/interview-studio/backend/internal/storage/sqlite"
	"github.com/interview-studio/backend/pkg/config"
	appLogger "github.com/interview-studio/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Interview Studio API Server")

	db, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	var pendingCache *redis.Client
	if cfg.Redis.Enabled {
		pendingCache, err = redis.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLogger.Fatal("Failed to create Redis client", zap.Error(err))
		}
		defer pendingCache.Close()
	}

	var mlpOpts []mlp.Option
	if cfg.OpenAI.APIKey != "" && cfg.MLP.QuestionGenerationURL == "" {
		mlpOpts = append(mlpOpts, mlp.WithQuestionGenerator(
			mlp.NewOpenAIGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.Temperature, cfg.OpenAI.MaxTokens),
		))
	}
	gateway := mlp.NewClient(mlp.Endpoints{
		QuestionGeneration: cfg.MLP.QuestionGenerationURL,
		Render:             cfg.MLP.RenderURL,
		RenderWithText:     cfg.MLP.RenderWithTextURL,
		Selection:          cfg.MLP.SelectionURL,
		Analysis:           cfg.MLP.AnalysisURL,
	}, time.Duration(cfg.MLP.TimeoutSec)*time.Second, mlpOpts...)

	hub := events.NewHub()
	orch := orchestrator.New(db, gateway, pendingCache, hub)
	engine := selection.NewEngine(db, gateway)
	analyzer := analysis.NewAnalyzer(db, gateway)
	processor := ingestion.NewProcessor(db)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.RateLimit.MaxRequestsPerMinute,
		Logger:               appLogger.GetLogger(),
	}).Middleware())
	app.Use(validation.Middleware(validation.Config{
		MaxBodyBytes: cfg.Server.BodyLimit,
		Logger:       appLogger.GetLogger(),
	}))

	generationHandler := handlers.NewGenerationHandler(db, orch)
	questionHandler := handlers.NewQuestionHandler(db, orch, engine, cfg.Storage.Bucket, cfg.Storage.PathPrefix)
	sessionHandler := handlers.NewSessionHandler(db)
	answerHandler := handlers.NewAnswerHandler(db, analyzer)
	textHandler := handlers.NewTextHandler(db, processor)
	documentHandler := handlers.NewDocumentHandler(db)
	wsHandler := handlers.NewWebSocketHandler(hub)

	api := app.Group("/api/v1")

	generation := api.Group("/generation")
	generation.Post("/create", generationHandler.Create)
	generation.Put("/update", generationHandler.Update)
	generation.Put("/update_type", generationHandler.UpdateType)
	generation.Get("/get/:id", generationHandler.Get)
	generation.Delete("/delete/:id", generationHandler.Delete)
	generation.Get("/", generationHandler.List)
	generation.Get("/base", generationHandler.ListBase)
	generation.Get("/get_by_user", generationHandler.ListByUser)
	generation.Post("/check_type_exist", generationHandler.TypeExists)
	generation.Post("/send/talking_head", generationHandler.SubmitRender)
	generation.Post("/receive/talking_head", generationHandler.ReceiveRender)

	question := api.Group("/question")
	question.Post("/create", questionHandler.Create)
	question.Put("/update", questionHandler.Update)
	question.Get("/get/:id", questionHandler.Get)
	question.Delete("/delete/:id", questionHandler.Delete)
	question.Get("/", questionHandler.List)
	question.Get("/get_by_interview_session", questionHandler.ListBySession)
	question.Post("/send/question_generation", questionHandler.Generate)
	question.Post("/send/question_selection", questionHandler.Select)

	session := api.Group("/interview_session")
	session.Post("/create", sessionHandler.Create)
	session.Put("/update", sessionHandler.Update)
	session.Get("/get/:id", sessionHandler.Get)
	session.Delete("/delete/:id", sessionHandler.Delete)
	session.Get("/", sessionHandler.List)
	session.Get("/get_by_cv_and_jd", sessionHandler.ListByResumeAndJD)

	answer := api.Group("/answer")
	answer.Post("/create", answerHandler.Create)
	answer.Get("/get/:id", answerHandler.Get)
	answer.Get("/get_by_question_id/:id", answerHandler.GetByQuestion)
	answer.Delete("/delete/:id", answerHandler.Delete)
	answer.Get("/", answerHandler.List)
	answer.Post("/send/answer_analysis", answerHandler.Analyze)

	text := api.Group("/text")
	text.Post("/create", textHandler.Create)
	text.Post("/ingest", textHandler.Ingest)
	text.Put("/update", textHandler.Update)
	text.Get("/get/:id", textHandler.Get)
	text.Delete("/delete/:id", textHandler.Delete)
	text.Get("/get_by_parent", textHandler.ListByParent)

	api.Post("/cv/create", documentHandler.CreateResume)
	api.Get("/cv/get/:id", documentHandler.GetResume)
	api.Post("/jd/create", documentHandler.CreateJobDescription)
	api.Get("/jd/get/:id", documentHandler.GetJobDescription)
	api.Post("/asset/create", documentHandler.CreateAsset)
	api.Get("/asset/get/:id", documentHandler.GetAsset)
	api.Get("/asset/get_by_user", documentHandler.ListAssetsByUser)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events/:user_id", websocket.New(wsHandler.HandleEvents))

	app.Get("/metrics", metrics.Handler())

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
