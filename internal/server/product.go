package server

import (
	"net/http"
	"strings"

	productdomain "github.com/brandkit/brandkit/internal/product/domain"
	"github.com/gin-gonic/gin"
)

type createProductRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	PriceCents  int64   `json:"price_cents"`
}

func (s *Server) CreateProduct(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	created, err := s.productSvc.Create(c.Request.Context(), int64(claims.UserID), productdomain.CreateRequest{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		ImageURL:    req.ImageURL,
		PriceCents:  req.PriceCents,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": created})
}

func (s *Server) ListProducts(c *gin.Context) {
	var query struct {
		SellerID string `form:"seller_id"`
		All      bool   `form:"all"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	products, err := s.productSvc.List(c.Request.Context(), productdomain.ListRequest{
		SellerID:   strings.TrimSpace(query.SellerID),
		ActiveOnly: !query.All,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": products})
}

func (s *Server) GetProductByID(c *gin.Context) {
	found, err := s.productSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": found})
}
