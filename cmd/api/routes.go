package main

import (
	"github.com/gin-gonic/gin"

	"github.com/intellemagit/VoxChain/internal/httpapi"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Call-session API.
	// NOTE: inbound authentication is out of scope here and should be
	// handled by the deployment's gateway.
	api := r.Group("/api")
	{
		api.POST("/start_call", h.StartCall)
		api.POST("/token", h.IssueToken)
		api.DELETE("/rooms/:room_name", h.EndCall)

		api.POST("/recordings/start", h.StartRecording)
		api.POST("/streams/start", h.StartStream)

		api.POST("/transcriptions", h.Transcribe)
	}
}
