package handler

import (
	"net/http"

	"newsfeed-service/internal/adapter/gin/middleware"
	"newsfeed-service/internal/usecase/user"
	apperrors "newsfeed-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PreferencesHandler handles HTTP requests for the caller's profile and
// topic preferences. All routes require the auth middleware.
type PreferencesHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewPreferencesHandler creates a new PreferencesHandler instance.
func NewPreferencesHandler(uc user.Usecase, log *zap.Logger) *PreferencesHandler {
	return &PreferencesHandler{
		uc:  uc,
		log: log,
	}
}

// UpdatePreferencesRequest represents the HTTP request body for
// replacing the topic list. A nil pointer means the field was absent or
// not an array.
type UpdatePreferencesRequest struct {
	Preferences *[]string `json:"preferences"`
}

// Get handles GET /users/preferences
func (h *PreferencesHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		writeError(c, apperrors.ErrTokenMissing)
		return
	}

	resp, err := h.uc.GetPreferences(c.Request.Context(), user.GetPreferencesRequest{ID: userID})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": resp.Preferences})
}

// Update handles PUT /users/preferences
func (h *PreferencesHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		writeError(c, apperrors.ErrTokenMissing)
		return
	}

	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Preferences == nil {
		h.log.Warn("preferences payload is not an array", zap.Int64("id", userID))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Must be array"})
		return
	}

	resp, err := h.uc.UpdatePreferences(c.Request.Context(), user.UpdatePreferencesRequest{
		ID:          userID,
		Preferences: *req.Preferences,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Updated",
		"preferences": resp.Preferences,
	})
}

// Me handles GET /users/me
func (h *PreferencesHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		writeError(c, apperrors.ErrTokenMissing)
		return
	}

	u, err := h.uc.GetProfile(c.Request.Context(), user.GetProfileRequest{ID: userID})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Preferences: u.Preferences,
	})
}
