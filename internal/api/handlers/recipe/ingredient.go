package recipe

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-matcher/internal/api/middleware"
	"recipe-matcher/internal/core/corpus"
	"recipe-matcher/internal/pkg/common"
)

// HandleIngredientSearch 搜尋食材，遠端來源失敗時改用本地清單
func (h *Handler) HandleIngredientSearch(c *gin.Context) {
	limit := corpus.DefaultIngredientLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			middleware.Abort(c, common.NewValidationError("limit", "limit must be a positive integer"))
			return
		}
		limit = n
	}
	if limit > corpus.MaxIngredientLimit {
		limit = corpus.MaxIngredientLimit
	}

	query := c.Query("q")
	if h.ingredients != nil {
		ingredients, err := h.ingredients.SearchIngredients(c.Request.Context(), query, limit)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
			return
		}
		common.LogWarn("Ingredient search failed, using local list", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"ingredients": corpus.SearchIngredients(query, limit),
	})
}
