package utils

import (
	"github.com/gin-gonic/gin"
)

type Response struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{StatusCode: statusCode, Message: message, Data: data})
}

// ErrorResponse aborts the chain so later handlers don't write a second body.
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, Response{StatusCode: statusCode, Message: message, Data: nil})
}

// TextResponse writes a plain text body, the format the browser observer expects.
func TextResponse(c *gin.Context, statusCode int, text string) {
	c.String(statusCode, "%s", text)
}
