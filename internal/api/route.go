package api

import (
	"net/http"

	"SocialHub/internal/api/middleware"
	"SocialHub/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		mediaGroup := apiGroup.Group("/media")
		mediaGroup.Use(middleware.AuthMiddleware())
		{
			mediaGroup.POST("/upload", group.MediaHandler.Upload)
		}

		platformGroup := apiGroup.Group("/platforms/:provider")
		platformGroup.Use(middleware.AuthMiddleware())
		{
			platformGroup.GET("/auth", group.PlatformHandler.Auth)
			platformGroup.GET("/auth/callback", group.PlatformHandler.AuthCallback)
			platformGroup.DELETE("/auth", group.PlatformHandler.Disconnect)

			platformGroup.GET("/profile", group.PlatformHandler.GetProfile)
			platformGroup.GET("/profile/posts", group.PlatformHandler.GetPosts)

			platformGroup.POST("/post", group.PlatformHandler.CreatePost)
			platformGroup.GET("/post/:post_id", group.PlatformHandler.GetPost)
			platformGroup.DELETE("/post/:post_id", group.PlatformHandler.DeletePost)

			platformGroup.GET("/page", group.PlatformHandler.GetDefaultPage)
			platformGroup.PUT("/page", group.PlatformHandler.SetDefaultPage)

			platformGroup.GET("/stats/followers", group.StatsHandler.Followers)
			platformGroup.GET("/stats/general", group.StatsHandler.General)
			platformGroup.GET("/stats/summary", group.StatsHandler.Summary)
		}
	}

	return r
}
