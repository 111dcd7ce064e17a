package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"study-auth/app/domain"
	"study-auth/app/port"
	apperrors "study-auth/app/utils/errors"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// AdminHandler handles profile administration requests
type AdminHandler struct {
	profiles port.ProfileRepository
	logger   *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(profiles port.ProfileRepository, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		profiles: profiles,
		logger:   logger.With("component", "admin_handler"),
	}
}

// ListProfiles returns a page of user profiles.
// @Summary List user profiles
// @Tags admin
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ProfileListResponse
// @Router /v1/admin/users [get]
func (h *AdminHandler) ListProfiles(c echo.Context) error {
	ctx := c.Request().Context()

	limit := queryInt(c, "limit", defaultPageSize)
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	profiles, err := h.profiles.List(ctx, limit, offset)
	if err != nil {
		h.logger.Error("failed to list profiles", "error", err)
		return h.writeError(c, err)
	}

	resp := ProfileListResponse{
		Profiles: make([]ProfileResponse, 0, len(profiles)),
		Limit:    limit,
		Offset:   offset,
	}
	for _, profile := range profiles {
		resp.Profiles = append(resp.Profiles, toProfileResponse(profile))
	}

	return c.JSON(http.StatusOK, resp)
}

// GetProfile returns a single profile by user ID.
// @Summary Get a user profile
// @Tags admin
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} ProfileResponse
// @Failure 404 {object} ErrorResponse
// @Router /v1/admin/users/{userId} [get]
func (h *AdminHandler) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid user ID",
			Code:  string(apperrors.ErrCodeInvalidInput),
		})
	}

	profile, err := h.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// SetAdmin grants or revokes the admin flag for a user.
// @Summary Set the admin flag
// @Tags admin
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param body body SetFlagRequest true "Flag value"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /v1/admin/users/{userId}/admin [patch]
func (h *AdminHandler) SetAdmin(c echo.Context) error {
	return h.setFlag(c, func(ctx echo.Context, userID uuid.UUID, value bool) error {
		return h.profiles.SetAdmin(ctx.Request().Context(), userID, value)
	}, "admin")
}

// SetActive activates or deactivates a user account.
// @Summary Set the active flag
// @Tags admin
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param body body SetFlagRequest true "Flag value"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /v1/admin/users/{userId}/active [patch]
func (h *AdminHandler) SetActive(c echo.Context) error {
	return h.setFlag(c, func(ctx echo.Context, userID uuid.UUID, value bool) error {
		return h.profiles.SetActive(ctx.Request().Context(), userID, value)
	}, "active")
}

func (h *AdminHandler) setFlag(c echo.Context, update func(echo.Context, uuid.UUID, bool) error, name string) error {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid user ID",
			Code:  string(apperrors.ErrCodeInvalidInput),
		})
	}

	var req SetFlagRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
			Code:  string(apperrors.ErrCodeBadRequest),
		})
	}
	if req.Value == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "value is required",
			Code:  string(apperrors.ErrCodeMissingField),
		})
	}

	if err := update(c, userID, *req.Value); err != nil {
		h.logger.Error("failed to update profile flag", "flag", name, "user_id", userID, "error", err)
		return h.writeError(c, err)
	}

	h.logger.Info("profile flag updated", "flag", name, "user_id", userID, "value", *req.Value)
	return c.JSON(http.StatusOK, SuccessResponse{
		Message: name + " flag updated",
	})
}

func (h *AdminHandler) writeError(c echo.Context, err error) error {
	appErr := apperrors.FromDomain(err)
	return c.JSON(appErr.StatusCode, ErrorResponse{
		Error: appErr.Message,
		Code:  string(appErr.Code),
	})
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func toProfileResponse(profile *domain.Profile) ProfileResponse {
	return ProfileResponse{
		UserID:    profile.UserID.String(),
		IsAdmin:   profile.IsAdmin,
		IsActive:  profile.IsActive,
		UpdatedAt: profile.UpdatedAt,
	}
}

// Request/Response types

type SetFlagRequest struct {
	Value *bool `json:"value"`
}

type ProfileResponse struct {
	UserID    string    `json:"user_id"`
	IsAdmin   bool      `json:"is_admin"`
	IsActive  bool      `json:"is_active"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProfileListResponse struct {
	Profiles []ProfileResponse `json:"profiles"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}
