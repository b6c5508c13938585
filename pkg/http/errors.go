package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"aquamon.io/water-quality-service/pkg/common"
	"aquamon.io/water-quality-service/pkg/monitor"
)

// internalError logs the real error and hides it from the caller.
func internalError(c *gin.Context, err error) {
	common.GetLoggerWith(common.LoggerNameRestfulServer).Error("internal error",
		zap.String("path", c.FullPath()),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// serviceError maps domain errors onto the HTTP taxonomy. Anything
// unrecognized is an upstream database failure: logged, reported as 500,
// never retried.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, monitor.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, monitor.ErrUsernameTaken):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": gin.H{"username": err.Error()},
		})
	case errors.Is(err, monitor.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": gin.H{"email": err.Error()},
		})
	case errors.Is(err, monitor.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username or password"})
	case errors.Is(err, monitor.ErrReportAlreadySent):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		internalError(c, err)
	}
}
