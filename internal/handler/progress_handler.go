package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/MohamadAmiin/diet-app-just-project/internal/service"
	"github.com/gin-gonic/gin"
)

type logWeightRequest struct {
	Value float64    `json:"value" binding:"required"`
	Date  *time.Time `json:"date"`
	Note  string     `json:"note"`
}

type updateWeightRequest struct {
	Value *float64   `json:"value"`
	Date  *time.Time `json:"date"`
	Note  *string    `json:"note"`
}

// LogWeight 记录一次体重并同步档案
func (a *API) LogWeight(c *gin.Context) {
	user, _ := currentUser(c)

	var req logWeightRequest
	if !bindJSON(c, &req, "体重值为必填项") {
		return
	}

	input := service.WeightInput{Value: req.Value, Note: req.Note}
	if req.Date != nil {
		input.Date = *req.Date
	}

	entry, err := a.weights.Log(user.ID, input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidWeight) {
			respondError(c, http.StatusBadRequest, "体重必须为正数")
			return
		}
		respondError(c, http.StatusInternalServerError, "记录体重失败")
		return
	}

	respondMessage(c, http.StatusCreated, "体重记录成功", entry)
}

// GetWeightHistory 返回体重历史，按日期降序
func (a *API) GetWeightHistory(c *gin.Context) {
	user, _ := currentUser(c)

	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, err := a.weights.History(user.ID, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取体重历史失败")
		return
	}

	respondList(c, len(entries), entries)
}

// GetWeightRange 返回日期区间内的体重记录
func (a *API) GetWeightRange(c *gin.Context) {
	user, _ := currentUser(c)

	start, end, ok := rangeQuery(c)
	if !ok {
		return
	}

	entries, err := a.weights.Range(user.ID, start, end)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取体重记录失败")
		return
	}

	respondList(c, len(entries), entries)
}

// GetLatestWeight 返回最近一条体重记录
func (a *API) GetLatestWeight(c *gin.Context) {
	user, _ := currentUser(c)

	entry, err := a.weights.Latest(user.ID)
	if err != nil {
		if errors.Is(err, service.ErrWeightNotFound) {
			respondError(c, http.StatusNotFound, "还没有体重记录")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取体重记录失败")
		return
	}

	respondData(c, http.StatusOK, entry)
}

// UpdateWeight 更新体重记录
func (a *API) UpdateWeight(c *gin.Context) {
	user, _ := currentUser(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的记录ID")
		return
	}

	var req updateWeightRequest
	if !bindJSON(c, &req, "请求体格式不正确") {
		return
	}

	entry, err := a.weights.Update(id, user.ID, isAdmin(c), service.WeightUpdate{
		Value: req.Value,
		Date:  req.Date,
		Note:  req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWeightNotFound):
			respondError(c, http.StatusNotFound, "记录不存在")
		case errors.Is(err, service.ErrPermissionDenied):
			respondError(c, http.StatusForbidden, "没有权限操作该记录")
		case errors.Is(err, service.ErrInvalidWeight):
			respondError(c, http.StatusBadRequest, "体重必须为正数")
		default:
			respondError(c, http.StatusInternalServerError, "更新记录失败")
		}
		return
	}

	respondMessage(c, http.StatusOK, "记录更新成功", entry)
}

// DeleteWeight 删除体重记录
func (a *API) DeleteWeight(c *gin.Context) {
	user, _ := currentUser(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的记录ID")
		return
	}

	if err := a.weights.Delete(id, user.ID, isAdmin(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrWeightNotFound):
			respondError(c, http.StatusNotFound, "记录不存在")
		case errors.Is(err, service.ErrPermissionDenied):
			respondError(c, http.StatusForbidden, "没有权限操作该记录")
		default:
			respondError(c, http.StatusInternalServerError, "删除记录失败")
		}
		return
	}

	respondMessage(c, http.StatusOK, "记录删除成功", nil)
}

// GetWeightProgress 返回体重变化统计与短期趋势
func (a *API) GetWeightProgress(c *gin.Context) {
	user, _ := currentUser(c)

	progress, err := a.progress.WeightProgress(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取体重进展失败")
		return
	}

	respondData(c, http.StatusOK, progress)
}

// GetNutritionProgress 返回最近若干天的营养摄入汇总
func (a *API) GetNutritionProgress(c *gin.Context) {
	user, _ := currentUser(c)

	days, _ := strconv.Atoi(c.Query("days"))

	progress, err := a.progress.NutritionProgress(user.ID, days)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取营养进展失败")
		return
	}

	respondData(c, http.StatusOK, progress)
}

// GetGoalProgress 返回目标达成情况
func (a *API) GetGoalProgress(c *gin.Context) {
	user, _ := currentUser(c)

	progress, err := a.progress.GoalProgress(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取目标进展失败")
		return
	}

	respondData(c, http.StatusOK, progress)
}

// GetProgressSummary 返回体重、营养、目标的聚合视图
func (a *API) GetProgressSummary(c *gin.Context) {
	user, _ := currentUser(c)

	summary, err := a.progress.Summary(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取进展汇总失败")
		return
	}

	respondData(c, http.StatusOK, summary)
}
