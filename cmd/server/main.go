package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/arnavshah/triage-api-go/pkg/auth"
	"github.com/arnavshah/triage-api-go/pkg/classifier"
	"github.com/arnavshah/triage-api-go/pkg/database"
	"github.com/arnavshah/triage-api-go/pkg/handlers"
	"github.com/arnavshah/triage-api-go/pkg/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.InitDB()
	_ = auth.EnsureAdminExists(db)

	svc := scheduler.NewService(classifier.NewKeyword(), database.NewHistoryStore(db))
	svc.Times = serviceTimesFromEnv()

	h := &handlers.Handler{DB: db, Scheduler: svc}

	r := gin.Default()

	// Routes
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "ER Triage API (Go Version)",
			"version": "1.1.0",
		})
	})

	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	// Triage Endpoints
	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/triage", h.TriageJSON)
		api.POST("/patients", h.CreatePatient)
		api.POST("/validate", h.ValidateInput)
		api.GET("/usage", h.GetMyUsage)
		api.GET("/history/:id", h.GetHistory)
	}

	// Parity routes matching the original gateway paths
	r.POST("/triage", h.APIKeyMiddleware(), h.TriageJSON)
	r.POST("/patient", h.APIKeyMiddleware(), h.CreatePatient)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}

// serviceTimesFromEnv applies SERVICE_MINUTES_* overrides to the default
// per-severity treatment durations.
func serviceTimesFromEnv() scheduler.ServiceTimes {
	times := scheduler.DefaultServiceTimes()
	if v, err := strconv.Atoi(os.Getenv("SERVICE_MINUTES_CRITICAL")); err == nil && v > 0 {
		times.Critical = v
	}
	if v, err := strconv.Atoi(os.Getenv("SERVICE_MINUTES_MEDIUM")); err == nil && v > 0 {
		times.Medium = v
	}
	if v, err := strconv.Atoi(os.Getenv("SERVICE_MINUTES_LOW")); err == nil && v > 0 {
		times.Low = v
	}
	return times
}
