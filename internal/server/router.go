package server

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) SetUpRouter() *gin.Engine {
	router := gin.New()
	router.Use(RequestId())
	router.Use(Logger())
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "ok",
		})
	})

	apiV1 := router.Group("/api/v1")
	s.SetUpApiV1Router(apiV1)

	return router
}

func (s *Server) SetUpApiV1Router(apiV1 *gin.RouterGroup) {
	apiV1.POST("/analysis", s.handleCreateAnalysis)
	apiV1.GET("/analysis/:job_uuid", s.handleGetAnalysisStatus)

	reactions := apiV1.Group("/reaction")
	reactions.Use(SetReactionToContext())
	reactions.GET("/:reaction_id", s.handleGetReaction)
	reactions.GET("/:reaction_id/frames", s.handleGetReactionFrames)
	reactions.GET("/:reaction_id/summary", s.handleGetReactionSummary)

	apiV1.GET("/settings", s.handleGetSettings)
	apiV1.PUT("/settings", s.handleUpdateSettings)
}
