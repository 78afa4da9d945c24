package handlers

import (
	"net/http"

	"carbooking/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the latest backend health snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "backends": utils.GetHealthStatus()})
}
