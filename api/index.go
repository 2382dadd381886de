package handler

import (
	"net/http"

	"github.com/arnavshah/triage-api-go/pkg/auth"
	"github.com/arnavshah/triage-api-go/pkg/classifier"
	"github.com/arnavshah/triage-api-go/pkg/database"
	"github.com/arnavshah/triage-api-go/pkg/handlers"
	"github.com/arnavshah/triage-api-go/pkg/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	// Initialize DB
	db := database.InitDB()
	_ = auth.EnsureAdminExists(db)

	svc := scheduler.NewService(classifier.NewKeyword(), database.NewHistoryStore(db))
	h := &handlers.Handler{DB: db, Scheduler: svc}

	// Initialize Gin
	gin.SetMode(gin.ReleaseMode)
	r = gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Routes
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "ER Triage API (Go Version on Vercel)",
			"version": "1.1.0",
		})
	})

	r.POST("/admin/login", h.Login)

	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

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
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, r_req *http.Request) {
	r.ServeHTTP(w, r_req)
}
