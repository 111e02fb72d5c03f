package main

import (
	"log"

	"taskflow-api/internal/config"
	"taskflow-api/internal/database"
	"taskflow-api/internal/routes"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Init database
	database.InitDB(cfg.DatabaseDSN)

	// Setup the routes (public and protected routes)
	ginRoutes := routes.SetupRoutes(cfg)

	// Start server
	log.Printf("Server starting on %s", cfg.Addr)
	log.Println("API endpoints:")
	log.Println("  POST   /api/auth/login")
	log.Println("  GET    /api/auth/me")
	log.Println("  GET    /api/tasks")
	log.Println("  GET    /api/tasks/status")
	log.Println("  GET    /api/tasks/:id")
	log.Println("  POST   /api/tasks")
	log.Println("  PUT    /api/tasks/:id")
	log.Println("  PATCH  /api/tasks/:id/status")
	log.Println("  DELETE /api/tasks/:id")
	log.Println("  GET    /api/tasks/:id/attachments")
	log.Println("  POST   /api/tasks/:id/attachments")
	log.Println("  DELETE /api/attachments/:id")
	log.Println("  GET    /api/tasks/:id/remarks")
	log.Println("  POST   /api/tasks/:id/remarks")
	log.Println("  PUT    /api/remarks/:id")
	log.Println("  DELETE /api/remarks/:id")
	log.Println("  GET    /api/employees")
	log.Println("  GET    /api/users")
	log.Println("  GET    /api/ws")
	log.Println("  GET    /health")

	if err := ginRoutes.Run(cfg.Addr); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
