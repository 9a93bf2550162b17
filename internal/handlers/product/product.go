package product

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"ecom_back_end/internal/logging"
	"ecom_back_end/internal/models"
	"ecom_back_end/internal/products"

	"github.com/gin-gonic/gin"
)

const (
	defaultTagLimit    = 10
	defaultSearchLimit = 20
	maxLimit           = 100
)

type ProductService interface {
	BrowsingHistory(ctx context.Context, q products.HistoryQuery) ([]models.Product, error)
	Categories(ctx context.Context) ([]models.CategorySummary, error)
	Subcategories(ctx context.Context, category string) ([]models.SubcategoryAvailability, error)
	ByTag(ctx context.Context, tag string, limit int64) ([]models.Product, error)
	CardsForTag(ctx context.Context, tag string, limit int64) ([]models.ProductCard, error)
	BySlug(ctx context.Context, slug string) (*models.Product, error)
	Search(ctx context.Context, q string, limit int) ([]models.Product, error)
}

type Handler struct {
	products ProductService
}

func NewHandler(svc ProductService) *Handler {
	return &Handler{products: svc}
}

// 🟢 GET /api/products/categories
func (h *Handler) Categories(c *gin.Context) {
	cats, err := h.products.Categories(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to fetch categories", err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

// 🟢 GET /api/products/categories/:category/subcategories
func (h *Handler) Subcategories(c *gin.Context) {
	subs, err := h.products.Subcategories(c.Request.Context(), c.Param("category"))
	if err != nil {
		h.fail(c, "Failed to fetch subcategories", err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

// 🟢 GET /api/products/tag/:tag?limit=&view=card
func (h *Handler) ByTag(c *gin.Context) {
	tag := c.Param("tag")
	limit := int64(queryLimit(c, defaultTagLimit))

	if c.Query("view") == "card" {
		cards, err := h.products.CardsForTag(c.Request.Context(), tag, limit)
		if err != nil {
			h.fail(c, "Failed to fetch products", err)
			return
		}
		c.JSON(http.StatusOK, cards)
		return
	}

	list, err := h.products.ByTag(c.Request.Context(), tag, limit)
	if err != nil {
		h.fail(c, "Failed to fetch products", err)
		return
	}
	c.JSON(http.StatusOK, orEmpty(list))
}

// 🟢 GET /api/products/search?q=
func (h *Handler) Search(c *gin.Context) {
	list, err := h.products.Search(c.Request.Context(), c.Query("q"), queryLimit(c, defaultSearchLimit))
	if err != nil {
		h.fail(c, "Search failed", err)
		return
	}
	c.JSON(http.StatusOK, orEmpty(list))
}

// 🟢 GET /api/products/:slug
func (h *Handler) BySlug(c *gin.Context) {
	p, err := h.products.BySlug(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, products.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		h.fail(c, "Failed to fetch product", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	logging.From(c).Error("❌ "+msg, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func queryLimit(c *gin.Context, fallback int) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n <= 0 {
		return fallback
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}

// splitList "a, b,,c" → [a b c]
func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func orEmpty(list []models.Product) []models.Product {
	if list == nil {
		return []models.Product{}
	}
	return list
}
