package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListDeliveryFrequencies(c *gin.Context) {
	frequencies, err := s.frequencyRepo.FindAll(c.Request.Context(), s.db)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": frequencies})
}
