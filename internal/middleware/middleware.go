package middleware

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error body written by middleware
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

func abortWithError(c *gin.Context, status int, errMsg, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     errMsg,
		Message:   message,
		RequestID: c.GetString(RequestIDKey),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// CORS middleware for handling Cross-Origin Resource Sharing.
// OPTIONS requests to passthroughPaths still get the CORS headers but reach
// their handler instead of being answered here.
func CORS(passthroughPaths ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-Request-ID, X-Correlation-ID")
		c.Header("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")

		if c.Request.Method == http.MethodOptions && !slices.Contains(passthroughPaths, c.Request.URL.Path) {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// ErrorHandler writes a JSON body for errors attached to the context
// when the handler has not written a response itself.
// Logging the errors is left to ErrorTracker.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last()
		switch err.Type {
		case gin.ErrorTypeBind:
			abortWithError(c, http.StatusBadRequest, "Invalid request format", err.Error())
		case gin.ErrorTypePublic:
			abortWithError(c, http.StatusBadRequest, "Request failed", err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Internal server error", "An internal error occurred")
		}
	}
}
