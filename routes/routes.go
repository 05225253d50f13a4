package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"linklet/handlers"
	"linklet/middleware"
)

// SetupRouter wires every endpoint. The stores arrive as interfaces
// so tests can run the full router against in-memory fakes.
func SetupRouter(secret []byte, users handlers.UserStore, posts handlers.PostStore, uploadDir string) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Server is running"})
	})

	// Uploaded image assets; content-type is left to the file server.
	router.Static("/uploads", uploadDir)

	authHandler := &handlers.Auth{Users: users, Secret: secret}
	postHandler := &handlers.Posts{Store: posts, UploadDir: uploadDir}

	// Public routes
	public := router.Group("/api")
	public.POST("/auth/signup", authHandler.Signup)
	public.POST("/auth/login", authHandler.Login)
	public.GET("/posts", postHandler.List)
	public.GET("/posts/user/:userId", postHandler.ListByUser)

	// Protected routes
	protected := router.Group("/api")
	protected.Use(middleware.RequireAuth(secret, users))
	protected.GET("/auth/me", authHandler.Me)
	protected.POST("/posts", postHandler.Create)
	protected.PATCH("/posts/:id", postHandler.Edit)
	protected.DELETE("/posts/:id", postHandler.Delete)
	protected.PUT("/posts/:id/like", postHandler.ToggleLike)
	protected.POST("/posts/:id/comments", postHandler.AddComment)
	protected.DELETE("/posts/:id/comments/:commentId", postHandler.RemoveComment)

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(404, gin.H{
				"message": "Endpoint not found",
				"path":    c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}
