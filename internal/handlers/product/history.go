package product

import (
	"net/http"

	"ecom_back_end/internal/products"

	"github.com/gin-gonic/gin"
)

// 🟢 GET /api/product/browsing-history?type=history|related&ids=&categories=&subCategories=
func (h *Handler) BrowsingHistory(c *gin.Context) {
	listType := c.DefaultQuery("type", "history")
	if listType != "history" && listType != "related" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be history or related"})
		return
	}

	list, err := h.products.BrowsingHistory(c.Request.Context(), products.HistoryQuery{
		Type:          listType,
		IDs:           splitList(c.Query("ids")),
		Categories:    splitList(c.Query("categories")),
		SubCategories: splitList(c.Query("subCategories")),
	})
	if err != nil {
		h.fail(c, "Failed to fetch browsing history", err)
		return
	}
	c.JSON(http.StatusOK, orEmpty(list))
}
