package routes

import (
	"taskflow-api/internal/config"
	"taskflow-api/internal/database"
	"taskflow-api/internal/handlers"
	"taskflow-api/internal/middleware"
	"taskflow-api/internal/storage"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(cfg config.Config) *gin.Engine {
	handlers.Init(database.GetDB(), storage.NewLocalStore(cfg.UploadDir))

	// Create a new GIN Router
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Taskflow API is running",
		})
	})

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		// Login endpoint
		api.POST("/auth/login", handlers.Login)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware(cfg.IdentityCacheTTL))
	{
		protectedRoutes.GET("/auth/me", handlers.Me)

		// Task endpoints
		protectedRoutes.GET("/tasks", handlers.GetTasks)
		protectedRoutes.GET("/tasks/status", handlers.GetTasksByStatus)
		protectedRoutes.GET("/tasks/:id", handlers.GetTaskByID)
		protectedRoutes.POST("/tasks", handlers.CreateTask)
		protectedRoutes.PUT("/tasks/:id", handlers.UpdateTask)
		protectedRoutes.PATCH("/tasks/:id/status", handlers.UpdateTaskStatus)
		protectedRoutes.DELETE("/tasks/:id", handlers.DeleteTask)

		// Attachment endpoints
		protectedRoutes.GET("/tasks/:id/attachments", handlers.GetAttachments)
		protectedRoutes.POST("/tasks/:id/attachments", handlers.UploadAttachment)
		protectedRoutes.DELETE("/attachments/:id", handlers.DeleteAttachment)

		// Remark endpoints
		protectedRoutes.GET("/tasks/:id/remarks", handlers.GetRemarks)
		protectedRoutes.POST("/tasks/:id/remarks", handlers.CreateRemark)
		protectedRoutes.PUT("/remarks/:id", handlers.UpdateRemark)
		protectedRoutes.DELETE("/remarks/:id", handlers.DeleteRemark)

		// Employee endpoints
		protectedRoutes.GET("/employees", handlers.GetEmployees)
		protectedRoutes.GET("/employees/:id", handlers.GetEmployeeByID)
		protectedRoutes.POST("/employees", handlers.CreateEmployee)
		protectedRoutes.PUT("/employees/:id", handlers.UpdateEmployee)
		protectedRoutes.DELETE("/employees/:id", handlers.DeleteEmployee)

		// User endpoints
		protectedRoutes.GET("/users", handlers.GetAllUsers)
		protectedRoutes.POST("/users", handlers.CreateUser)
		protectedRoutes.PUT("/users/:id", handlers.UpdateUser)
		protectedRoutes.DELETE("/users/:id", handlers.DeleteUser)

		// Realtime events
		protectedRoutes.GET("/ws", handlers.WebSocketHandler)
	}

	return ginRouter
}
