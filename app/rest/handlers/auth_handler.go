package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"study-auth/app/domain"
	"study-auth/app/usecase"
	apperrors "study-auth/app/utils/errors"
	"study-auth/app/utils/validator"
)

// SessionController is the slice of the reconciler the handlers depend on.
type SessionController interface {
	SignIn(ctx context.Context, email, password string) (*domain.AuthUser, error)
	SignUp(ctx context.Context, email, password string) (*domain.AuthUser, error)
	SignOut(ctx context.Context) error
	Snapshot() usecase.Snapshot
	WaitForInit(ctx context.Context) (usecase.Snapshot, error)
}

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	sessions  SessionController
	validator *validator.Validator
	logger    *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions SessionController, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		sessions:  sessions,
		validator: validator.New(),
		logger:    logger.With("component", "auth_handler"),
	}
}

// Login authenticates with email and password and returns the reconciled
// user state.
// @Summary Sign in with password
// @Tags authentication
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Warn("failed to bind login request", "error", err)
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
			Code:  string(apperrors.ErrCodeBadRequest),
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Code:    string(apperrors.ErrCodeValidationFailed),
			Details: err.Error(),
		})
	}

	user, err := h.sessions.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.Warn("sign-in failed", "email", req.Email, "error", err)
		return h.writeError(c, err)
	}

	h.logger.Info("sign-in succeeded", "user_id", user.ID)
	resp := toUserResponse(user)
	return c.JSON(http.StatusOK, SessionResponse{
		User:          &resp,
		Authenticated: true,
	})
}

// Register creates a new account. When the identity backend defers the
// session until the email is confirmed, the response carries no user and
// a pending flag.
// @Summary Register a new account
// @Tags authentication
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration details"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Warn("failed to bind registration request", "error", err)
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
			Code:  string(apperrors.ErrCodeBadRequest),
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Code:    string(apperrors.ErrCodeValidationFailed),
			Details: err.Error(),
		})
	}

	user, err := h.sessions.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.Warn("sign-up failed", "email", req.Email, "error", err)
		return h.writeError(c, err)
	}

	if user == nil {
		h.logger.Info("sign-up accepted, confirmation pending", "email", req.Email)
		return c.JSON(http.StatusCreated, SessionResponse{
			Authenticated:       false,
			ConfirmationPending: true,
		})
	}

	h.logger.Info("sign-up succeeded", "user_id", user.ID)
	resp := toUserResponse(user)
	return c.JSON(http.StatusCreated, SessionResponse{
		User:          &resp,
		Authenticated: true,
	})
}

// Logout signs out the current session. Always succeeds from the caller's
// perspective; upstream revocation failures are handled internally.
// @Summary Sign out
// @Tags authentication
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.sessions.SignOut(ctx); err != nil {
		h.logger.Error("sign-out failed", "error", err)
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "signed out",
	})
}

// GetSession returns the current reconciled session state. It waits for
// the startup probe to settle so callers never observe a pre-init state.
// @Summary Current session state
// @Tags authentication
// @Produce json
// @Success 200 {object} SessionStateResponse
// @Router /v1/auth/session [get]
func (h *AuthHandler) GetSession(c echo.Context) error {
	ctx := c.Request().Context()

	snapshot, err := h.sessions.WaitForInit(ctx)
	if err != nil {
		h.logger.Warn("session state requested before initialization settled", "error", err)
	}

	resp := SessionStateResponse{
		Authenticated: snapshot.User != nil,
		Loading:       snapshot.Loading,
		Initialized:   snapshot.Initialized,
	}
	if snapshot.User != nil {
		user := toUserResponse(snapshot.User)
		resp.User = &user
	}

	return c.JSON(http.StatusOK, resp)
}

// writeError maps domain errors onto HTTP responses.
func (h *AuthHandler) writeError(c echo.Context, err error) error {
	appErr := apperrors.FromDomain(err)
	return c.JSON(appErr.StatusCode, ErrorResponse{
		Error: appErr.Message,
		Code:  string(appErr.Code),
	})
}

func toUserResponse(user *domain.AuthUser) UserResponse {
	return UserResponse{
		ID:       user.ID.String(),
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
		IsActive: user.IsActive,
	}
}

// Request/Response types

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
	IsActive bool   `json:"is_active"`
}

type SessionResponse struct {
	User                *UserResponse `json:"user,omitempty"`
	Authenticated       bool          `json:"authenticated"`
	ConfirmationPending bool          `json:"confirmation_pending,omitempty"`
}

type SessionStateResponse struct {
	User          *UserResponse `json:"user"`
	Authenticated bool          `json:"authenticated"`
	Loading       bool          `json:"loading"`
	Initialized   bool          `json:"initialized"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
