package handler

import (
	"net/http"

	"newsfeed-service/internal/usecase/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccountHandler handles HTTP requests for signup and login.
type AccountHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewAccountHandler creates a new AccountHandler instance.
func NewAccountHandler(uc user.Usecase, log *zap.Logger) *AccountHandler {
	return &AccountHandler{
		uc:  uc,
		log: log,
	}
}

// SignupRequest represents the HTTP request body for registering a user.
type SignupRequest struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Preferences []string `json:"preferences"`
}

// LoginRequest represents the HTTP request body for authenticating.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents the HTTP response for user data. The password
// digest never appears here.
type UserResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Preferences []string `json:"preferences"`
}

// Signup handles POST /users/signup
func (h *AccountHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid signup request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing fields"})
		return
	}

	resp, err := h.uc.Signup(c.Request.Context(), user.SignupRequest{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Preferences: req.Preferences,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered",
		"user": UserResponse{
			ID:          resp.User.ID,
			Name:        resp.User.Name,
			Email:       resp.User.Email,
			Preferences: resp.User.Preferences,
		},
	})
}

// Login handles POST /users/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid login request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing fields"})
		return
	}

	resp, err := h.uc.Login(c.Request.Context(), user.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": resp.Token})
}
