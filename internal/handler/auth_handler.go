package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storelane/storelane-api/internal/service"
	"github.com/storelane/storelane-api/internal/utils"
)

// AuthHandler handles account endpoints: registration, login, email
// verification, password reset, and two-factor completion.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new account and sends a verification email.
func (h *AuthHandler) Register(c *gin.Context) {
	var in service.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	user, err := h.authService.Register(c.Request.Context(), &in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 201, "Account created", user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session token, or a two-factor challenge.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if result.TwoFactorRequired {
		utils.Success(c, 200, "Two-factor code sent", result)
		return
	}
	utils.Success(c, 200, "Login successful", result)
}

type twoFactorRequest struct {
	Code string `json:"code"`
}

// CompleteTwoFactor exchanges an emailed code for a session token.
func (h *AuthHandler) CompleteTwoFactor(c *gin.Context) {
	var req twoFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		utils.Error(c, 400, "VALIDATION_ERROR", "Code is required")
		return
	}
	result, err := h.authService.CompleteTwoFactor(c.Request.Context(), req.Code)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Login successful", result)
}

type tokenRequest struct {
	Token string `json:"token"`
}

// VerifyEmail consumes a verification token.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		utils.Error(c, 400, "VALIDATION_ERROR", "Token is required")
		return
	}
	if err := h.authService.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Email verified", nil)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword sends a reset link. Always reports success so the endpoint
// does not reveal which addresses have accounts.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		utils.Error(c, 400, "VALIDATION_ERROR", "Email is required")
		return
	}
	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "If the account exists, a reset email was sent", nil)
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword consumes a reset token and replaces the password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		utils.Error(c, 400, "VALIDATION_ERROR", "Token and password are required")
		return
	}
	if err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Password updated", nil)
}
