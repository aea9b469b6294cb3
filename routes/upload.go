package routes

import (
	"errors"
	"net/http"

	"rag-chat-bot/models"
	"rag-chat-bot/utils"

	"github.com/gin-gonic/gin"
)

const uploadField = "file"

func handleUploadFile(ingestor Ingestor) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile(uploadField)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				utils.RespondWithError(c, http.StatusRequestEntityTooLarge,
					"request_too_large",
					"Request body exceeds maximum size",
					gin.H{"max_size": tooLarge.Limit})
				return
			}
			utils.RespondWithUnprocessable(c, "A file is required", gin.H{
				"field": uploadField,
				"error": err.Error(),
			})
			return
		}

		file, err := header.Open()
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to read uploaded file", gin.H{"error": err.Error()})
			return
		}
		defer file.Close()

		result, err := ingestor.Ingest(c.Request.Context(), header.Filename, file)
		if err != nil {
			respondWithServiceError(c, "Failed to process uploaded file", err)
			return
		}

		c.JSON(http.StatusOK, models.UploadResponse{
			Filename:     result.Filename,
			FilePath:     result.FilePath,
			Confirmation: result.Confirmation(),
		})
	}
}
