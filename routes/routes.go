package routes

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"rag-chat-bot/internal/logger"
	"rag-chat-bot/middleware"
	"rag-chat-bot/models"
	"rag-chat-bot/services"
	"rag-chat-bot/utils"

	"github.com/gin-gonic/gin"
)

// Ingestor stores an uploaded file and indexes its contents
type Ingestor interface {
	Ingest(ctx context.Context, filename string, src io.Reader) (*models.IngestResult, error)
}

// QuestionAnswerer answers a query from indexed documents
type QuestionAnswerer interface {
	Invoke(ctx context.Context, query string, withSources bool) (*models.QAResult, error)
}

// SetupRoutes registers the upload, chat and health endpoints
func SetupRoutes(router *gin.Engine, ingestor Ingestor, qa QuestionAnswerer) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
		})
	})

	router.POST("/uploadfile", handleUploadFile(ingestor))
	router.POST("/chat", handleChat(qa))
}

// respondWithServiceError maps a pipeline failure onto a 500 carrying the failing stage
func respondWithServiceError(c *gin.Context, message string, err error) {
	code := "internal_error"
	var se *services.StageError
	if errors.As(err, &se) {
		code = se.Code()
	}

	logger.Error(message,
		"error_code", code,
		"error", err,
		"request_id", middleware.GetRequestID(c),
	)

	utils.RespondWithError(c, http.StatusInternalServerError, code, message, gin.H{"error": err.Error()})
}
