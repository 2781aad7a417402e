package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ylbabygo/xuekework/internal/middleware"
	"github.com/ylbabygo/xuekework/internal/models"
	"github.com/ylbabygo/xuekework/internal/service"
)

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(user models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      string(user.Role),
		Status:    string(user.Status),
		CreatedAt: user.CreatedAt,
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), service.LoginInput{
		Username:  req.Username,
		Password:  req.Password,
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			fail(c, http.StatusUnauthorized, "用户名或密码错误")
		case errors.Is(err, service.ErrUserSuspended):
			fail(c, http.StatusForbidden, "账号已被禁用")
		default:
			fail(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	ok(c, loginResponse{
		Token: result.Token,
		User:  toUserResponse(result.User),
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	claims, exists := middleware.CurrentClaims(c)
	if !exists {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims.SessionID); err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	okMessage(c, "已退出登录")
}

func (h HandlerSet) Me(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	ok(c, toUserResponse(user))
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

func (h HandlerSet) ChangePassword(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	claims, _ := middleware.CurrentClaims(c)

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), user, claims.SessionID, req.OldPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			fail(c, http.StatusBadRequest, "原密码错误")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	okMessage(c, "密码已修改")
}

type settingsPayload struct {
	Theme        string `json:"theme"`
	Language     string `json:"language"`
	DefaultModel string `json:"default_model"`
}

func (h HandlerSet) GetSettings(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	settings, err := h.settings.Get(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	ok(c, settingsPayload{
		Theme:        settings.Theme,
		Language:     settings.Language,
		DefaultModel: settings.DefaultModel,
	})
}

func (h HandlerSet) UpdateSettings(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req settingsPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	settings := models.UserSettings{
		UserID:       user.ID,
		Theme:        req.Theme,
		Language:     req.Language,
		DefaultModel: req.DefaultModel,
	}
	if settings.Theme == "" {
		settings.Theme = "light"
	}
	if settings.Language == "" {
		settings.Language = "zh-CN"
	}

	if err := h.settings.Upsert(c.Request.Context(), settings); err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	ok(c, req)
}
