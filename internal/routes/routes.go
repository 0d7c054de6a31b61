package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ai-assistant-server/internal/agent"
	"ai-assistant-server/internal/config"
	"ai-assistant-server/internal/handlers"
	"ai-assistant-server/internal/llm"
	"ai-assistant-server/internal/middleware"
	"ai-assistant-server/internal/search"
	"ai-assistant-server/internal/store"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	st := store.New(db)
	llmClient := llm.NewClient(cfg.LLM, cfg.Embedding)

	searchSvc := search.NewService(llmClient, llmClient, st)
	assistant := agent.New(llmClient, st)

	authHandler := handlers.NewAuthHandler(cfg)
	settingsHandler := handlers.NewSettingsHandler(st, searchSvc)
	toolsHandler := handlers.NewToolsHandler(assistant)

	// Settings search (public, read-only plus the search answerer)
	router.GET("/settings", settingsHandler.ListSettings)
	router.GET("/insight/:name", settingsHandler.GetInsight)
	router.POST("/search", settingsHandler.SearchSettings)

	// Service token issuance
	router.POST("/auth/token", authHandler.IssueToken)

	// Tool-call API; call_tool mutates the schedule, so it requires a token
	router.GET("/list_tools", toolsHandler.ListTools)
	protected := router.Group("")
	protected.Use(middleware.AuthMiddleware(cfg))
	{
		protected.POST("/call_tool", toolsHandler.CallTool)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
