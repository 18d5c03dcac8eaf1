package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/bazaar/internal/domain/model"
	"github.com/polkiloo/bazaar/internal/server/http/dto"
)

// ProductHandler serves catalog endpoints.
type ProductHandler struct {
	facade CatalogFacade
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(facade CatalogFacade) *ProductHandler {
	return &ProductHandler{facade: facade}
}

// List handles GET /api/products.
func (h *ProductHandler) List(c *gin.Context) {
	var q dto.ProductQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	products, err := h.facade.Products(c.Request.Context(), model.ProductFilter{VendorID: q.VendorID, Category: q.Category})
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, dto.NewProductResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	product, err := h.facade.Product(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductResponse(*product))
}

// Create handles POST /api/vendor/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	product, err := h.facade.CreateProduct(c.Request.Context(), CurrentUserID(c), req.Model())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewProductResponse(*product))
}
