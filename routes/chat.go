package routes

import (
	"net/http"

	"rag-chat-bot/models"
	"rag-chat-bot/utils"

	"github.com/gin-gonic/gin"
)

func handleChat(qa QuestionAnswerer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UserQuery
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithUnprocessable(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		result, err := qa.Invoke(c.Request.Context(), *req.Query, req.ReturnSourceDocuments)
		if err != nil {
			respondWithServiceError(c, "Failed to answer query", err)
			return
		}

		c.JSON(http.StatusOK, models.ChatResponse{Response: result})
	}
}
