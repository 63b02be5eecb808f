package api

import (
	"net/http"
	"time"

	answerapi "github.com/futig/scrapbox-rag/internal/api/answer"
	"github.com/futig/scrapbox-rag/internal/api/docs"
	"github.com/futig/scrapbox-rag/internal/api/middleware"
	searchapi "github.com/futig/scrapbox-rag/internal/api/search"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	searchHandler *searchapi.Handler,
	answerHandler *answerapi.Handler,
	docsSpecPath string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)                  // Recover from panics
	r.Use(chimiddleware.RequestID)                  // Add request ID
	r.Use(middleware.Logger(logger))                // Log requests
	r.Use(middleware.CORS)                          // Handle CORS
	r.Use(chimiddleware.Timeout(120 * time.Second)) // LLM generation is slow

	// Swagger documentation endpoints
	docs.RegisterRoutes(r, docsSpecPath)

	// Register routes
	searchapi.RegisterRoutes(r, searchHandler)
	answerapi.RegisterRoutes(r, answerHandler)

	return r
}
