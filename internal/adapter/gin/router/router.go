package router

import (
	"net/http"

	"newsfeed-service/internal/adapter/gin/handler"
	"newsfeed-service/internal/adapter/gin/middleware"
	"newsfeed-service/pkg/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	accountHandler *handler.AccountHandler,
	preferencesHandler *handler.PreferencesHandler,
	newsHandler *handler.NewsHandler,
	tokens *token.Manager,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "newsfeed-service",
		})
	})

	authRequired := middleware.Auth(tokens, log)

	users := router.Group("/users")
	{
		users.POST("/signup", accountHandler.Signup)
		users.POST("/login", accountHandler.Login)

		users.GET("/me", authRequired, preferencesHandler.Me)
		users.GET("/preferences", authRequired, preferencesHandler.Get)
		users.PUT("/preferences", authRequired, preferencesHandler.Update)
	}

	router.GET("/news", authRequired, newsHandler.List)

	return router
}
