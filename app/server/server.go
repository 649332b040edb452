package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"medrag/app/agent"
	"medrag/app/api"
	"medrag/app/middleware"
	"medrag/config"
	"medrag/model"
	"medrag/store"
)

var fiberConfig = fiber.Config{
	ErrorHandler: api.ErrorHandler,
}

// Server owns the two long-lived handles. Both are fully built in NewServer,
// so Stop can run from another goroutine at any point after construction
// without racing, even if a shutdown signal arrives before Run.
type Server struct {
	settings config.Settings
	logger   *slog.Logger
	app      *fiber.App
	index    store.VectorIndex
}

// NewServer connects the vector store, wires the retrieval agent, and
// registers all routes. Run only starts the listener.
func NewServer(settings config.Settings) (*Server, error) {
	ctx := context.Background()

	index, err := newVectorIndex(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("connect to vector store: %w", err)
	}
	if err := index.Init(ctx); err != nil {
		index.Close()
		return nil, fmt.Errorf("init vector store: %w", err)
	}

	embedder := model.NewOllamaEmbedder(settings.OllamaBaseURL, settings.EmbeddingModel)
	llm := model.NewOllamaChat(settings.OllamaBaseURL, settings.OllamaModel, settings.LLMTemperature)

	retriever := agent.NewRetriever(embedder, index)
	composer := agent.NewComposer(llm, settings.MaxDistance, settings.RequireCitations)

	var (
		app          = fiber.New(fiberConfig)
		checkHandler = api.NewCheckHandler()
		qaHandler    = api.NewQAHandler(retriever, composer)
	)

	app.Use(middleware.RequestLogging())
	app.Use(middleware.Metrics())

	app.Get("/health", checkHandler.HandleHealth)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	guarded := app.Group("", middleware.RequireAPIKey(settings.APIKey))
	guarded.Post("/retrieve", qaHandler.HandleRetrieve)
	guarded.Post("/query", qaHandler.HandleQuery)

	return &Server{
		settings: settings,
		logger:   slog.Default(),
		app:      app,
		index:    index,
	}, nil
}

func (s *Server) Run() {
	if err := s.app.Listen(s.settings.ServerAddr); err != nil {
		s.logger.Error("error to start server", "error", err.Error())
	}
}

func (s *Server) Stop() {
	if err := s.app.Shutdown(); err != nil {
		s.logger.Error("error during shutdown", "error", err.Error())
	}
	s.index.Close()
	s.logger.Info("server stopped")
}

func newVectorIndex(ctx context.Context, settings config.Settings) (store.VectorIndex, error) {
	if settings.StoreKind == "memory" {
		return store.NewMemoryStore(), nil
	}
	return store.NewPostgresStore(ctx, settings.ConnString(), settings.Collection, settings.EmbedDim)
}
