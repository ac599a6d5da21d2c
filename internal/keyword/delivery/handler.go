package delivery

import (
	"net/http"

	"mailtodo-backend/internal/keyword/domain"
	"mailtodo-backend/internal/keyword/usecase"

	"github.com/gin-gonic/gin"
)

// KeywordHandler handles keyword-related HTTP requests
type KeywordHandler struct {
	keywordUsecase usecase.KeywordUsecase
}

// NewKeywordHandler creates a new KeywordHandler
func NewKeywordHandler(keywordUsecase usecase.KeywordUsecase) *KeywordHandler {
	return &KeywordHandler{
		keywordUsecase: keywordUsecase,
	}
}

// AddKeywordRequest represents the request body for adding a keyword
type AddKeywordRequest struct {
	Word string `json:"word" binding:"required"`
	Type string `json:"type" binding:"required"`
}

// GetKeywords returns all keywords
// GET /api/keywords
func (h *KeywordHandler) GetKeywords(c *gin.Context) {
	keywords, err := h.keywordUsecase.ListKeywords()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"keywords": keywords})
}

// AddKeyword creates a new include or exclude keyword
// POST /api/keywords
func (h *KeywordHandler) AddKeyword(c *gin.Context) {
	var req AddKeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	keyword, err := h.keywordUsecase.AddKeyword(req.Word, domain.KeywordType(req.Type))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, keyword)
}

// DeleteKeyword removes a keyword
// DELETE /api/keywords/:id
func (h *KeywordHandler) DeleteKeyword(c *gin.Context) {
	if err := h.keywordUsecase.DeleteKeyword(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Keyword deleted"})
}
