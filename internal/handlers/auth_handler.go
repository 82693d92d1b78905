package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sqlgenie/internal/responses"
	"sqlgenie/internal/services"
)

const (
	RefreshTokenCookieName = "refresh_token"
	RefreshTokenMaxAge     = 30 * 24 * 3600 // 30 days in seconds
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Please provide your email and password correctly")
		return
	}

	accessToken, refreshToken, err := h.authService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			responses.Fail(c, http.StatusConflict, err, "User already exists")
			return
		}
		responses.Fail(c, http.StatusInternalServerError, err, "Could not register user")
		return
	}

	h.setRefreshCookie(c, refreshToken, RefreshTokenMaxAge)

	responses.Success(c, http.StatusCreated, gin.H{
		"access_token": accessToken,
	}, "New user registered successfully!")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid format")
		return
	}

	accessToken, refreshToken, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		responses.Fail(c, http.StatusUnauthorized, err, "Failed to login")
		return
	}

	h.setRefreshCookie(c, refreshToken, RefreshTokenMaxAge)

	responses.Success(c, http.StatusOK, gin.H{
		"access_token": accessToken,
	}, "User logged in successfully!")
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(RefreshTokenCookieName)
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Missing refresh token")
		return
	}

	accessToken, newRefreshToken, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		h.setRefreshCookie(c, "", -1)
		responses.Fail(c, http.StatusUnauthorized, err, "Invalid or expired refresh token")
		return
	}

	h.setRefreshCookie(c, newRefreshToken, RefreshTokenMaxAge)

	responses.Success(c, http.StatusOK, gin.H{
		"access_token": accessToken,
	}, "Access token refreshed successfully")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if refreshToken, err := c.Cookie(RefreshTokenCookieName); err == nil {
		if err := h.authService.Logout(c.Request.Context(), refreshToken); err != nil {
			responses.Fail(c, http.StatusInternalServerError, err, "Could not revoke token")
			return
		}
	}

	h.setRefreshCookie(c, "", -1)

	responses.Success(c, http.StatusOK, nil, "Logged out successfully")
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Please provide a valid email")
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Could not start password reset")
		return
	}

	// Same response whether or not the account exists.
	responses.Success(c, http.StatusOK, nil, "If that account exists, a reset code has been sent")
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email    string `json:"email"    binding:"required,email"`
		Code     string `json:"code"     binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid format")
		return
	}

	err := h.authService.ResetPassword(c.Request.Context(), req.Email, req.Code, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidOTP) {
			responses.Fail(c, http.StatusUnauthorized, err, "Invalid or expired reset code")
			return
		}
		responses.Fail(c, http.StatusInternalServerError, err, "Could not reset password")
		return
	}

	responses.Success(c, http.StatusOK, nil, "Password reset successfully")
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string, maxAge int) {
	c.SetCookie(RefreshTokenCookieName, token, maxAge, "/", "", true, true)
}
