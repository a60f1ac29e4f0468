package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	kitdomain "github.com/brandkit/brandkit/internal/kit/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListKits(c *gin.Context) {
	kits, err := s.kitSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": kits})
}

func (s *Server) CreateKit(c *gin.Context) {
	var ownerID *snowflake.ID
	if claims, ok := claimsFrom(c); ok {
		id := claims.UserID
		ownerID = &id
	}

	created, err := s.kitSvc.Create(c.Request.Context(), ownerID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": created})
}

func (s *Server) ListMySubscriptions(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	kits, err := s.kitSvc.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": kits})
}

func (s *Server) GetKitSummary(c *gin.Context) {
	summary, err := s.kitSvc.Summary(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func (s *Server) AddKitItem(c *gin.Context) {
	var req kitdomain.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	item, err := s.kitSvc.AddItem(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": item})
}

func (s *Server) UpdateKitItemQuantity(c *gin.Context) {
	var req kitdomain.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	item, err := s.kitSvc.UpdateItemQuantity(
		c.Request.Context(),
		strings.TrimSpace(c.Param("id")),
		strings.TrimSpace(c.Param("productId")),
		req.Quantity,
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) RemoveKitItem(c *gin.Context) {
	err := s.kitSvc.RemoveItem(
		c.Request.Context(),
		strings.TrimSpace(c.Param("id")),
		strings.TrimSpace(c.Param("productId")),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item removed"})
}

func (s *Server) SetKitFrequency(c *gin.Context) {
	var req kitdomain.SetFrequencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	updated, err := s.kitSvc.SetDeliveryFrequency(
		c.Request.Context(),
		strings.TrimSpace(c.Param("id")),
		req.FrequencyID,
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": updated})
}

func (s *Server) ConfirmKit(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	confirmed, err := s.kitSvc.Confirm(c.Request.Context(), strings.TrimSpace(c.Param("id")), claims.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": confirmed})
}
