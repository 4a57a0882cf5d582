package assistant

import (
	"errors"
	"net/http"
	"strconv"

	"labvault-api/internal/document"

	"github.com/gin-gonic/gin"
)

type AssistantController struct {
	AssistantService *AssistantService
}

func (ac *AssistantController) SummarizeLineage(c *gin.Context) {
	lineageID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	summary, err := ac.AssistantService.SummarizeLineage(c.Request.Context(), uint(lineageID))
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
