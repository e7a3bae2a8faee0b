package handler

import (
	"errors"
	"net/http"

	"github.com/MohamadAmiin/diet-app-just-project/internal/service"
	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type profileRequest struct {
	Age                *int     `json:"age"`
	Height             *float64 `json:"height"`
	Weight             *float64 `json:"weight"`
	Goal               *string  `json:"goal"`
	DailyCalorieTarget *int     `json:"dailyCalorieTarget"`
}

// Register 注册新账号
func (a *API) Register(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req, "邮箱和密码不能为空") {
		return
	}

	user, token, err := a.auth.Register(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			respondError(c, http.StatusBadRequest, "该邮箱已被注册")
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, http.StatusBadRequest, "邮箱格式不正确")
		case errors.Is(err, service.ErrWeakPassword):
			respondError(c, http.StatusBadRequest, "密码至少需要 6 位")
		default:
			respondError(c, http.StatusInternalServerError, "注册失败")
		}
		return
	}

	respondMessage(c, http.StatusCreated, "注册成功", gin.H{"user": user, "token": token})
}

// Login 登录并签发令牌
func (a *API) Login(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req, "邮箱和密码不能为空") {
		return
	}

	user, token, err := a.auth.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "邮箱或密码错误")
		return
	}

	respondMessage(c, http.StatusOK, "登录成功", gin.H{"user": user, "token": token})
}

// Me 返回当前登录用户
func (a *API) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "缺少认证令牌")
		return
	}
	respondData(c, http.StatusOK, user)
}

// ChangePassword 修改当前用户密码
func (a *API) ChangePassword(c *gin.Context) {
	user, _ := currentUser(c)

	var req changePasswordRequest
	if !bindJSON(c, &req, "当前密码和新密码不能为空") {
		return
	}

	if err := a.auth.ChangePassword(user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrWeakPassword):
			respondError(c, http.StatusBadRequest, "新密码至少需要 6 位")
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, http.StatusBadRequest, "当前密码不正确")
		default:
			respondError(c, http.StatusInternalServerError, "修改密码失败")
		}
		return
	}

	respondMessage(c, http.StatusOK, "密码修改成功", nil)
}

// GetProfile 获取当前用户档案
func (a *API) GetProfile(c *gin.Context) {
	user, _ := currentUser(c)

	profile, err := a.profiles.Get(user.ID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			respondError(c, http.StatusNotFound, "档案不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取档案失败")
		return
	}

	respondData(c, http.StatusOK, profile)
}

// UpdateProfile 部分更新当前用户档案
func (a *API) UpdateProfile(c *gin.Context) {
	user, _ := currentUser(c)

	var req profileRequest
	if !bindJSON(c, &req, "请求体格式不正确") {
		return
	}

	profile, err := a.profiles.Update(user.ID, service.ProfileUpdate{
		Age:                req.Age,
		Height:             req.Height,
		Weight:             req.Weight,
		Goal:               req.Goal,
		DailyCalorieTarget: req.DailyCalorieTarget,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileNotFound):
			respondError(c, http.StatusNotFound, "档案不存在")
		case errors.Is(err, service.ErrProfileInvalid):
			respondError(c, http.StatusBadRequest, "档案字段超出合理范围")
		default:
			respondError(c, http.StatusInternalServerError, "更新档案失败")
		}
		return
	}

	respondMessage(c, http.StatusOK, "档案更新成功", profile)
}

// ListUsers 返回全部用户（仅管理员）
func (a *API) ListUsers(c *gin.Context) {
	users, err := a.auth.ListUsers()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取用户列表失败")
		return
	}
	respondList(c, len(users), users)
}
