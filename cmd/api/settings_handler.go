package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mailtodo-backend/internal/engine"
)

// UpdateEngineSettingsRequest carries partial updates; omitted fields keep
// their current value
type UpdateEngineSettingsRequest struct {
	LookbackDays        *int     `json:"lookback_days"`
	SimilarityThreshold *float64 `json:"similarity_threshold"`
	SubKeywordThreshold *int     `json:"sub_keyword_threshold"`
	MemoExcerptLen      *int     `json:"memo_excerpt_len"`
}

// GetEngineSettings returns the current classification pass configuration
// GET /api/settings/engine
func GetEngineSettings(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := eng.Config()
		c.JSON(http.StatusOK, gin.H{
			"lookback_days":         cfg.LookbackDays,
			"similarity_threshold":  cfg.SimilarityThreshold,
			"sub_keyword_threshold": cfg.SubKeywordThreshold,
			"memo_excerpt_len":      cfg.MemoExcerptLen,
		})
	}
}

// UpdateEngineSettings tunes the classification pass at runtime; the next
// pass picks the new values up
// PUT /api/settings/engine
func UpdateEngineSettings(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateEngineSettingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		cfg := eng.Config()
		if req.LookbackDays != nil {
			cfg.LookbackDays = *req.LookbackDays
		}
		if req.SimilarityThreshold != nil {
			cfg.SimilarityThreshold = *req.SimilarityThreshold
		}
		if req.SubKeywordThreshold != nil {
			cfg.SubKeywordThreshold = *req.SubKeywordThreshold
		}
		if req.MemoExcerptLen != nil {
			cfg.MemoExcerptLen = *req.MemoExcerptLen
		}
		eng.UpdateConfig(cfg)

		updated := eng.Config()
		c.JSON(http.StatusOK, gin.H{
			"message":               "engine settings updated",
			"lookback_days":         updated.LookbackDays,
			"similarity_threshold":  updated.SimilarityThreshold,
			"sub_keyword_threshold": updated.SubKeywordThreshold,
			"memo_excerpt_len":      updated.MemoExcerptLen,
		})
	}
}
