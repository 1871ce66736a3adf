package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/tupper/assistant"
)

func (s *Server) ask(c *gin.Context) {
	var req QuestionRequest
	if !s.bind(c, &req) {
		return
	}

	answer, err := s.pipeline.Ask(c.Request.Context(), req.Question)
	if err != nil {
		s.logger.Error("error answering question", "err", err, "request_id", c.GetString(requestIDKey))
		s.fail(c, http.StatusBadGateway, assistant.GenerationFailedMessage)
		return
	}

	c.JSON(http.StatusOK, AskResponse{
		Answer:   answer.Text,
		State:    answer.State.String(),
		Strict:   answer.StrictCount,
		Fallback: answer.FallbackCount,
	})
}

func (s *Server) filters(c *gin.Context) {
	var req QuestionRequest
	if !s.bind(c, &req) {
		return
	}

	set, err := s.pipeline.Constraints(c.Request.Context(), req.Question)
	if err != nil {
		s.logger.Warn("error extracting filters", "err", err, "request_id", c.GetString(requestIDKey))
		s.fail(c, http.StatusBadGateway, assistant.ExtractionFailedMessage)
		return
	}

	c.JSON(http.StatusOK, FiltersResponse{Constraints: set})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
		Dishes: s.pipeline.Pool().Len(),
	})
}

func (s *Server) bind(c *gin.Context, req *QuestionRequest) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		s.fail(c, http.StatusBadRequest, "question required")
		return false
	}
	if len(req.Question) > s.maxQuestionLen {
		s.fail(c, http.StatusRequestEntityTooLarge, "question too long")
		return false
	}
	return true
}

func (s *Server) fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		RequestID: c.GetString(requestIDKey),
	})
}
