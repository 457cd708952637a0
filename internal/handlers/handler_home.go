package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// home responds with a minimal service banner.
func home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service": "statement-ledger", "status": "ok"})
}
