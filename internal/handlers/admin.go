package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ylbabygo/xuekework/internal/middleware"
	"github.com/ylbabygo/xuekework/internal/models"
	"github.com/ylbabygo/xuekework/internal/repository"
	"github.com/ylbabygo/xuekework/internal/service"
)

func (h HandlerSet) AdminListUsers(c *gin.Context) {
	limit, offset := pageParams(c)

	users, err := h.users.List(c.Request.Context(), limit, offset)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	total, err := h.users.Count(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	items := make([]userResponse, 0, len(users))
	for _, user := range users {
		items = append(items, toUserResponse(user))
	}

	ok(c, gin.H{
		"items": items,
		"total": total,
	})
}

type adminCreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

func (h HandlerSet) AdminCreateUser(c *gin.Context) {
	var req adminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.CreateUser(c.Request.Context(), service.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.UserRole(req.Role),
	})
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			fail(c, http.StatusConflict, "用户名已存在")
			return
		}
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	ok(c, toUserResponse(user))
}

type adminUpdateUserRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Role   string `json:"role" binding:"required"`
	Status string `json:"status" binding:"required"`
}

func (h HandlerSet) AdminUpdateUser(c *gin.Context) {
	id := c.Param("id")

	var req adminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	err := h.users.Update(c.Request.Context(), id, req.Email, models.UserRole(req.Role), models.UserStatus(req.Status))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "用户不存在")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	// Suspending a user kills their live sessions immediately.
	if models.UserStatus(req.Status) == models.UserStatusSuspended {
		if err := h.sessions.DeleteByUser(c.Request.Context(), id); err != nil {
			h.log.Warn().Err(err).Str("user_id", id).Msg("revoke sessions failed")
		}
	}

	okMessage(c, "用户已更新")
}

func (h HandlerSet) AdminDeleteUser(c *gin.Context) {
	id := c.Param("id")

	current, _ := middleware.CurrentUser(c)
	if current.ID == id {
		fail(c, http.StatusBadRequest, "不能删除当前登录账号")
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "用户不存在")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	okMessage(c, "用户已删除")
}

type adminResetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

func (h HandlerSet) AdminResetPassword(c *gin.Context) {
	id := c.Param("id")

	var req adminResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.users.GetByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "用户不存在")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), id, req.NewPassword); err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	okMessage(c, "密码已重置")
}
