package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (a *API) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"message":   "Biscotto Bakeria API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"env":       a.opts.Env,
	})
}
