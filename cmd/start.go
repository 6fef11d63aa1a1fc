/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"knowledge-rag-be/handler"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the knowledge base server",
	Long:  `Starts the HTTP server that serves knowledge base management, document upload and chat.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		a := mustBuildApp(ctx, cfgFile)

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		knowledgeHandler := handler.NewKnowledgeHandler(a.knowledgeService)
		uploadHandler := handler.NewUploadHandler(a.fileService)
		chatHandler := handler.NewChatHandler(a.ragService, a.knowledgeService)

		// Setup Gin router
		router := gin.Default()
		router.Use(corsHandler.CorsMiddleware)

		router.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api := router.Group("/api")
		{
			api.POST("/knowledge-bases", knowledgeHandler.HandleCreateKnowledgeBase)
			api.GET("/knowledge-bases", knowledgeHandler.HandleListKnowledgeBases)
			api.GET("/knowledge-bases/:id", knowledgeHandler.HandleGetKnowledgeBase)
			api.DELETE("/knowledge-bases/:id", knowledgeHandler.HandleDeleteKnowledgeBase)
			api.GET("/knowledge-bases/:id/files", knowledgeHandler.HandleListFiles)
			api.DELETE("/knowledge-bases/:id/files/:fileId", knowledgeHandler.HandleDeleteFile)
			api.POST("/upload", uploadHandler.HandleUpload)
			api.POST("/chat", chatHandler.HandleChat)
		}

		log.Printf("Starting server on port %s...\n", a.cfg.Port)
		if err := router.Run(":" + a.cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
