package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/scrapbox-rag/internal/api"
	answerapi "github.com/futig/scrapbox-rag/internal/api/answer"
	searchapi "github.com/futig/scrapbox-rag/internal/api/search"
	"github.com/futig/scrapbox-rag/internal/config"
	"github.com/futig/scrapbox-rag/internal/health"
	"github.com/futig/scrapbox-rag/internal/integration/elastic"
	"github.com/futig/scrapbox-rag/internal/integration/embedding"
	"github.com/futig/scrapbox-rag/internal/integration/llm"
	"github.com/futig/scrapbox-rag/internal/integration/scrapbox"
	searchconn "github.com/futig/scrapbox-rag/internal/integration/search"
	"github.com/futig/scrapbox-rag/internal/pkg/validator"
	"github.com/futig/scrapbox-rag/internal/repository"
	"github.com/futig/scrapbox-rag/internal/retriever"
	"github.com/futig/scrapbox-rag/internal/segmenter"
	"github.com/futig/scrapbox-rag/internal/usecase/answer"
	"github.com/futig/scrapbox-rag/internal/usecase/ingest"
	"github.com/futig/scrapbox-rag/internal/usecase/search"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type embeddingConnector interface {
	retriever.Embedder
	ingest.Embedder
}

type llmConnector interface {
	answer.Generator
	search.LLMHealth
}

// BuildAPI wires the search and answer HTTP service
func BuildAPI(args []string) (*App, error) {
	cfg, err := config.LoadAPIConfig(args)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	ctx := ctxzap.ToContext(context.Background(), logger)

	// Initialize external service connectors (with mock support)
	var embeddingConn embeddingConnector
	var llmConn llmConnector

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		embeddingConn = embedding.NewMockConnector(logger)
		llmConn = llm.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		embeddingConn = embedding.NewConnector(cfg.EmbeddingCfg, logger)
		llmConn = llm.NewConnector(cfg.LLMCfg, logger)
	}

	elasticConn := elastic.NewConnector(cfg.ElasticCfg, logger)

	// Wait for the engine, then make sure the index exists
	gate := health.NewGate(cfg.ElasticCfg.Readiness.RetryConfig())
	if err := gate.WaitReady(ctx, health.Probe{Name: "elasticsearch", Check: elasticConn.Ping}); err != nil {
		return nil, fmt.Errorf("wait for elasticsearch: %w", err)
	}
	if err := elasticConn.EnsureIndex(ctx); err != nil {
		logger.Error("Index creation step failed", zap.Error(err))
	}

	// Initialize validators
	requestValidator := validator.New()
	logger.Info("Validators initialized")

	// Initialize use cases
	hybridRetriever := retriever.New(embeddingConn, elasticConn, cfg.SearchCfg.QueryCacheTTL)
	searchUC := search.NewUsecase(hybridRetriever, elasticConn, llmConn, requestValidator, cfg.SearchCfg, logger)
	answerUC := answer.NewUsecase(llmConn, searchUC, requestValidator, logger)
	logger.Info("Use cases initialized")

	// Setup API handlers
	searchHandler := searchapi.NewHandler(searchUC)
	answerHandler := answerapi.NewHandler(answerUC)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(searchHandler, answerHandler, cfg.DocsSpecPath, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		logger: logger,
	}, nil
}

// BuildBatch wires a single ingestion run
func BuildBatch(args []string) (*Batch, error) {
	ctx := context.Background()

	cfg, err := config.LoadBatchConfig(args)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building batch",
		zap.String("environment", cfg.Environment),
		zap.String("project", cfg.ScrapboxCfg.Project),
	)

	// Optional run journal
	db, err := setupJournal(ctx, cfg.DatabaseCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup journal: %w", err)
	}
	var journal ingest.RunJournal
	if db != nil {
		journal = repository.NewRunPostgres(db)
	}

	// Initialize connectors
	var embeddingConn ingest.Embedder
	if cfg.EnableMocks {
		logger.Info("Using mock embedding connector")
		embeddingConn = embedding.NewMockConnector(logger)
	} else {
		embeddingConn = embedding.NewConnector(cfg.EmbeddingCfg, logger)
	}

	scrapboxConn := scrapbox.NewConnector(cfg.ScrapboxCfg, logger)
	searchConn := searchconn.NewConnector(cfg.SearchCfg, logger)

	pageSegmenter := segmenter.New(
		segmenter.WithMaxChars(cfg.IngestCfg.ChunkMaxChars),
		segmenter.WithDedentMinLines(cfg.IngestCfg.DedentMinLines),
		segmenter.WithBaseURL(cfg.ScrapboxCfg.Url),
	)
	gate := health.NewGate(cfg.ReadinessCfg.RetryConfig())

	ingestUC := ingest.NewUsecase(
		scrapboxConn,
		embeddingConn,
		searchConn,
		pageSegmenter,
		gate,
		journal,
		cfg.IngestCfg.Concurrency,
		logger,
	)

	logger.Info("Batch built successfully")

	return &Batch{
		ingest:  ingestUC,
		project: cfg.ScrapboxCfg.Project,
		db:      db,
		logger:  logger,
	}, nil
}
