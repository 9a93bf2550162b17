package order

import (
	"net/http"

	"ecom_back_end/internal/orders"

	"github.com/gin-gonic/gin"
)

type approveRequest struct {
	OrderID string `json:"orderID" binding:"required"`
}

// 🟢 POST /api/orders/:id/paypal
func (h *Handler) CreatePayPalOrder(c *gin.Context) {
	c.JSON(http.StatusOK, h.payments.CreatePayPalOrder(c.Request.Context(), c.Param("id")))
}

// 🟢 POST /api/orders/:id/paypal/approve
func (h *Handler) ApprovePayPalOrder(c *gin.Context) {
	var req approveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, orders.Result{Success: false, Message: "orderID is required"})
		return
	}
	c.JSON(http.StatusOK, h.payments.ApprovePayPalOrder(c.Request.Context(), c.Param("id"), req.OrderID))
}
