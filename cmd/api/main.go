package main

import (
	"context"
	"flag"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang/glog"

	"github.com/careervault/vault/internal/auth"
	"github.com/careervault/vault/internal/config"
	"github.com/careervault/vault/internal/gateway"
	"github.com/careervault/vault/internal/handlers"
	"github.com/careervault/vault/internal/services"
)

func main() {
	flag.Parse()
	defer glog.Flush()

	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		glog.Fatalf("Configuration error: %v", err)
	}

	// 2. Remote vault gateway
	client := gateway.NewClient(
		cfg.APIBaseURL,
		gateway.WithTimeout(cfg.HTTPTimeout),
		gateway.WithSignedURLTTL(cfg.SignedURLTTL),
	)

	// 3. Session identity
	ctx := context.Background()
	session := auth.New(cfg.UserEmail)
	if cfg.IDToken != "" {
		session, err = auth.Establish(ctx, client, cfg.IDToken)
		if err != nil {
			glog.Fatalf("Identity verification failed: %v", err)
		}
	}
	client.SetIdentity(session.Email)
	glog.Infof("Session %s established for %s", session.ID, session.Email)

	// 4. Core session services
	store := services.NewRecordStore(client)
	if err := store.Refresh(ctx); err != nil {
		// the façade still starts; views are empty until a refresh succeeds
		glog.Warningf("Initial fetch failed: %v", err)
	}
	urls := services.NewSignedUrlCache(client)
	resumes := services.NewResumeService(client, urls)

	// 5. Handlers
	vaultHandler := handlers.NewVaultHandler(store, client)
	resumeHandler := handlers.NewResumeHandler(resumes)

	// 6. Router & CORS
	r := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true // For development only
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// 7. Routes
	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/session", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"id":      session.ID,
				"email":   session.Email,
				"name":    session.Name,
				"picture": session.Picture,
			})
		})

		api.GET("/applications", vaultHandler.ListApplications)
		api.GET("/applications/board", vaultHandler.Board)
		api.GET("/applications/search", vaultHandler.Search)
		api.GET("/applications/insights", vaultHandler.Insights)
		api.POST("/applications", vaultHandler.CreateApplication)
		api.PATCH("/applications/:id", vaultHandler.EditApplication)
		api.PATCH("/applications/:id/status", vaultHandler.SetStatus)
		api.DELETE("/applications/:id", vaultHandler.DeleteApplication)

		api.GET("/resumes", resumeHandler.ListResumes)
		api.POST("/resumes", resumeHandler.UploadResume)
		api.DELETE("/resumes/:id", resumeHandler.DeleteResume)
		api.GET("/resumes/:id/preview", resumeHandler.Preview)

		api.POST("/parse-url", vaultHandler.ParseURL)
	}

	glog.Infof("Vault session starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		glog.Fatalf("Server failed to start: %v", err)
	}
}
