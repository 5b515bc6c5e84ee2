package handler

import (
	"net/http"

	"newsfeed-service/internal/adapter/gin/middleware"
	"newsfeed-service/internal/usecase/news"
	apperrors "newsfeed-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewsHandler handles HTTP requests for the news proxy.
type NewsHandler struct {
	uc  news.Usecase
	log *zap.Logger
}

// NewNewsHandler creates a new NewsHandler instance.
func NewNewsHandler(uc news.Usecase, log *zap.Logger) *NewsHandler {
	return &NewsHandler{
		uc:  uc,
		log: log,
	}
}

// List handles GET /news
func (h *NewsHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		writeError(c, apperrors.ErrTokenMissing)
		return
	}

	articles, err := h.uc.Fetch(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("news fetch failed", zap.Int64("id", userID), zap.Error(err))
		// Provider faults answer with a stable message, no upstream details
		if _, ok := err.(*apperrors.UpstreamError); ok {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "News API failed"})
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"articles": articles})
}
