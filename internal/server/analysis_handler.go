package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"reactsense/internal/dao"
	"reactsense/internal/model"
)

const reactionKey = "reaction"

func SetReactionToContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param("reaction_id")
		if idStr == "" {
			c.Next()
			return
		}

		id, err := strconv.Atoi(idStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "invalid reaction_id",
			})
			return
		}

		reaction, err := model.GetReactionVideoById(id)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "internal server error",
			})
			return
		} else if reaction == nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error": "reaction not found",
			})
			return
		}
		c.Set(reactionKey, reaction)
		c.Next()
	}
}

// handleCreateAnalysis registers the reaction video, records the job and
// enqueues it for the worker.
func (s *Server) handleCreateAnalysis(c *gin.Context) {
	var req dao.CreateAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, http.StatusBadRequest, err)
		return
	}

	reaction := &model.ReactionVideo{
		AdId:     req.AdId,
		FilePath: req.FilePath,
		Status:   model.ReactionStatusPending,
	}
	if err := model.AddReactionVideo(reaction); err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}

	jobUuid := strings.ReplaceAll(uuid.New().String(), "-", "")
	job := &model.AnalysisJob{
		Uuid:            jobUuid,
		ReactionVideoId: reaction.Id,
		AdId:            req.AdId,
		Status:          model.AnalysisJobStatusQueued,
	}
	if err := model.AddAnalysisJob(job); err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}

	payload := dao.EmotionJobPayload{
		JobUuid:    jobUuid,
		ReactionId: reaction.Id,
		AdId:       req.AdId,
		FilePath:   req.FilePath,
	}
	data, err := json.Marshal(&payload)
	if err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	if err := s.producer.Publish(s.conf.NSQ.JobTopic, data); err != nil {
		s.logger.WithError(err).Error("enqueue analysis job")
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, dao.CreateAnalysisResponse{
		JobUuid: jobUuid,
	})
}

func (s *Server) handleGetAnalysisStatus(c *gin.Context) {
	job, err := model.GetAnalysisJobByUuid(c.Param("job_uuid"))
	if err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	} else if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, dao.FromJobModel(job))
}

func (s *Server) handleGetReaction(c *gin.Context) {
	reaction := c.MustGet(reactionKey).(*model.ReactionVideo)
	c.JSON(http.StatusOK, reaction)
}

func (s *Server) handleGetReactionFrames(c *gin.Context) {
	reaction := c.MustGet(reactionKey).(*model.ReactionVideo)

	frames, err := model.ListEmotionFrames(reaction.Id)
	if err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reactionId": reaction.Id,
		"frames":     frames,
	})
}

func (s *Server) handleGetReactionSummary(c *gin.Context) {
	reaction := c.MustGet(reactionKey).(*model.ReactionVideo)

	summary, err := model.GetEmotionSummary(reaction.Id)
	if err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	} else if summary == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "summary not available"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
