package gateway

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"maktub/internal/letters"
)

// LettersHandler serves the cached letter list with filtering, sorting
// and pagination applied per request.
type LettersHandler struct {
	service      *letters.Service
	itemsPerPage int
	logger       *zap.Logger
}

func NewLettersHandler(service *letters.Service, itemsPerPage int, logger *zap.Logger) *LettersHandler {
	if itemsPerPage <= 0 {
		itemsPerPage = letters.DefaultItemsPerPage
	}
	return &LettersHandler{
		service:      service,
		itemsPerPage: itemsPerPage,
		logger:       logger,
	}
}

// GetLetters serves GET /api/letters. A refresh=true parameter bypasses
// the cache; otherwise cached data is used within its lifetime.
func (h *LettersHandler) GetLetters(c *gin.Context) {
	ctx := c.Request.Context()
	forceRefresh := c.Query("refresh") == "true"

	records := h.service.LoadLetters(ctx, forceRefresh)

	q := letters.Query{
		Search:       c.Query("search"),
		TypeLabel:    c.Query("type"),
		ReviewStatus: c.Query("status"),
		Sort:         letters.SortKey(c.DefaultQuery("sort", string(letters.SortDateNewOld))),
	}
	filtered := q.Apply(records)

	p := letters.NewPagination(h.itemsPerPage)
	if v, err := strconv.Atoi(c.Query("itemsPerPage")); err == nil && v > 0 {
		p.SetItemsPerPage(v)
	}
	p.SetTotal(len(filtered))
	if v, err := strconv.Atoi(c.Query("page")); err == nil {
		p.GoToPage(v)
	}

	c.JSON(http.StatusOK, gin.H{
		"letters":      p.PageSlice(filtered),
		"page":         p.Page(),
		"itemsPerPage": p.ItemsPerPage(),
		"totalItems":   p.TotalItems(),
		"totalPages":   p.TotalPages(),
		"state":        h.service.State().String(),
	})
}

// RefreshLetters serves POST /api/letters/refresh: drop the cache and
// reload immediately.
func (h *LettersHandler) RefreshLetters(c *gin.Context) {
	ctx := c.Request.Context()
	h.service.InvalidateAfterWrite(ctx)
	records := h.service.LoadLetters(ctx, true)

	c.JSON(http.StatusOK, gin.H{
		"totalItems": len(records),
		"state":      h.service.State().String(),
	})
}
