package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caseflow/caseflow/common"
	"github.com/caseflow/caseflow/internal/logger"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		if apiErr, ok := err.(common.APIError); ok {
			response := gin.H{"error": apiErr.Message}
			if apiErr.Fields != nil {
				response["fields"] = apiErr.Fields
			}
			if apiErr.Status >= http.StatusInternalServerError {
				logger.Errorf("%s %s: %s", c.Request.Method, c.Request.URL.Path, apiErr.Message)
			}
			c.JSON(apiErr.Status, response)
			return
		}

		logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
