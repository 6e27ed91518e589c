package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"userservice/internal/handlers"
)

func SetupRoutes(r *gin.Engine, appName string, rpcHandler *handlers.RPCHandler) *gin.Engine {
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello %s!", appName)
	})
	r.POST("/api", rpcHandler.Handle)
	return r
}
