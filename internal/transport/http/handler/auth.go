package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/travelapp/travel-auth/internal/domain"
	"github.com/travelapp/travel-auth/internal/usecase"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterResult, error)
	ConfirmEmail(ctx context.Context, rawToken string) (*usecase.AuthResult, error)
	ResendConfirmation(ctx context.Context, email string) (*usecase.RegisterResult, error)
}

type accountFinder interface {
	FindByID(ctx context.Context, id string) (*domain.Account, error)
}

type AuthHandler struct {
	auth     authUsecaser
	accounts accountFinder
	logger   *slog.Logger
}

func NewAuthHandler(auth authUsecaser, accounts accountFinder, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		accounts: accounts,
		logger:   logger.With("component", "auth_handler"),
	}
}

type registerRequest struct {
	Email           string `json:"email" binding:"required,email,max=256"`
	Password        string `json:"password" binding:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, validationError(err))
		return
	}

	res, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			c.JSON(http.StatusConflict,
				apiError(codeEmailExists, "An account with this email already exists"))
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "register", "error", err)
		c.JSON(http.StatusInternalServerError, apiError(codeInternal, msgInternal))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": res.Message,
		"email":   res.Email,
	})
}

// GET /auth/confirm-email?token=<raw>
// The only path that logs the user in automatically.
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	rawToken := c.Query("token")
	if rawToken == "" {
		c.JSON(http.StatusBadRequest, apiError(codeInvalidToken, "Confirmation token is required"))
		return
	}

	res, err := h.auth.ConfirmEmail(c.Request.Context(), rawToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalid):
			c.JSON(http.StatusBadRequest, apiError(codeInvalidToken, "Confirmation token is invalid"))
		case errors.Is(err, domain.ErrTokenExpired):
			c.JSON(http.StatusBadRequest,
				apiError(codeTokenExpired, "The confirmation link has expired. Request a new one."))
		case errors.Is(err, domain.ErrAlreadyConfirmed):
			c.JSON(http.StatusBadRequest, apiError(codeAlreadyConfirmed, "This email is already confirmed"))
		default:
			h.logger.ErrorContext(c.Request.Context(), "confirm email", "error", err)
			c.JSON(http.StatusInternalServerError, apiError(codeInternal, msgInternal))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     res.Token,
		"email":     res.Email,
		"userId":    res.UserID,
		"expiresAt": res.ExpiresAt,
	})
}

type resendRequest struct {
	Email string `json:"email" binding:"required,email,max=256"`
}

// POST /auth/resend-confirmation
// Responds 200 with the same generic message whether or not the account
// exists or is confirmed.
func (h *AuthHandler) ResendConfirmation(c *gin.Context) {
	var req resendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, validationError(err))
		return
	}

	res, err := h.auth.ResendConfirmation(c.Request.Context(), req.Email)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "resend confirmation", "error", err)
		c.JSON(http.StatusInternalServerError, apiError(codeInternal, msgInternal))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": res.Message,
		"email":   res.Email,
	})
}

// GET /auth/me (Bearer-protected)
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString("userID")

	account, err := h.accounts.FindByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, apiError(codeInternal, "Account no longer exists"))
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "load account", "error", err)
		c.JSON(http.StatusInternalServerError, apiError(codeInternal, msgInternal))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":         account.ID,
		"email":          account.Email,
		"emailConfirmed": account.EmailConfirmed,
		"createdAt":      account.CreatedAt,
	})
}
