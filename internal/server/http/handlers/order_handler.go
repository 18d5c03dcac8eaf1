package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/bazaar/internal/domain/model"
	"github.com/polkiloo/bazaar/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Place handles POST /api/orders.
func (h *OrderHandler) Place(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), CurrentUserID(c), req.LineItems())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewOrderResponse(*order, 0))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.CustomerOrders(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders, 0))
}

// VendorList handles GET /api/vendor/orders. Only the vendor's own lines are shown.
func (h *OrderHandler) VendorList(c *gin.Context) {
	vendorID := CurrentUserID(c)
	orders, err := h.facade.VendorOrders(c.Request.Context(), vendorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders, vendorID))
}

// UpdateStatus handles PATCH /api/vendor/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	var req dto.OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), CurrentUserID(c), id, model.OrderStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(*order, 0))
}

func toOrderResponses(orders []model.Order, vendorID int64) []dto.OrderResponse {
	resp := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, dto.NewOrderResponse(o, vendorID))
	}
	return resp
}
