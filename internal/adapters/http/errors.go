package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/route-fetch-service/internal/adapters/http/dto"
)

// noRoute answers unknown paths with the standard error envelope.
func noRoute(c *gin.Context) {
	abortWithCode(c, http.StatusNotFound, dto.ErrorCodeNotFound, "no such endpoint: "+c.Request.URL.Path)
}

// noMethod answers known paths called with the wrong method.
func noMethod(c *gin.Context) {
	abortWithCode(c, http.StatusMethodNotAllowed, dto.ErrorCodeBadRequest, "method "+c.Request.Method+" not allowed")
}

func abortWithCode(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, message).WithTraceID(dto.GetTraceID(c)))
}
