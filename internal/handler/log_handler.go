package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/MohamadAmiin/diet-app-just-project/internal/service"
	"github.com/gin-gonic/gin"
)

type createLogRequest struct {
	FoodID   uint       `json:"foodId" binding:"required"`
	Quantity float64    `json:"quantity"`
	MealType string     `json:"mealType" binding:"required"`
	Date     *time.Time `json:"date"`
}

type updateLogRequest struct {
	FoodID   *uint      `json:"foodId"`
	Quantity *float64   `json:"quantity"`
	MealType *string    `json:"mealType"`
	Date     *time.Time `json:"date"`
}

// rangeQuery 解析 startDate/endDate 查询参数
func rangeQuery(c *gin.Context) (time.Time, time.Time, bool) {
	rawStart := c.Query("startDate")
	rawEnd := c.Query("endDate")
	if rawStart == "" || rawEnd == "" {
		respondError(c, http.StatusBadRequest, "startDate 和 endDate 为必填项")
		return time.Time{}, time.Time{}, false
	}

	start, err := parseDate(rawStart)
	if err != nil {
		respondError(c, http.StatusBadRequest, "日期格式不正确，应为 YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	end, err := parseDate(rawEnd)
	if err != nil {
		respondError(c, http.StatusBadRequest, "日期格式不正确，应为 YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}

	return start, end, true
}

// CreateLog 记录一餐并触发当天总量重算
func (a *API) CreateLog(c *gin.Context) {
	user, _ := currentUser(c)

	var req createLogRequest
	if !bindJSON(c, &req, "foodId 和 mealType 为必填项") {
		return
	}

	input := service.MealLogInput{
		FoodID:   req.FoodID,
		Quantity: req.Quantity,
		MealType: req.MealType,
	}
	if req.Date != nil {
		input.Date = *req.Date
	}

	log, err := a.logs.Create(user.ID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFoodNotFound):
			respondError(c, http.StatusNotFound, "食物不存在")
		case errors.Is(err, service.ErrInvalidMealType):
			respondError(c, http.StatusBadRequest, "无效的餐次")
		case errors.Is(err, service.ErrInvalidQuantity):
			respondError(c, http.StatusBadRequest, "数量必须为正数")
		default:
			respondError(c, http.StatusInternalServerError, "记录失败")
		}
		return
	}

	respondMessage(c, http.StatusCreated, "记录成功", log)
}

// GetTodayLogs 获取今天的用餐记录
func (a *API) GetTodayLogs(c *gin.Context) {
	user, _ := currentUser(c)

	logs, err := a.logs.ListToday(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取记录失败")
		return
	}

	respondList(c, len(logs), logs)
}

// GetLogsByDate 获取指定日期的用餐记录
func (a *API) GetLogsByDate(c *gin.Context) {
	user, _ := currentUser(c)

	day, err := parseDate(c.Param("date"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "日期格式不正确，应为 YYYY-MM-DD")
		return
	}

	logs, err := a.logs.ListByDate(user.ID, day)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取记录失败")
		return
	}

	respondList(c, len(logs), logs)
}

// GetLogsRange 获取日期区间内的用餐记录
func (a *API) GetLogsRange(c *gin.Context) {
	user, _ := currentUser(c)

	start, end, ok := rangeQuery(c)
	if !ok {
		return
	}

	logs, err := a.logs.ListRange(user.ID, start, end)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取记录失败")
		return
	}

	respondList(c, len(logs), logs)
}

// GetAllLogs 获取最近的用餐记录
func (a *API) GetAllLogs(c *gin.Context) {
	user, _ := currentUser(c)

	limit, _ := strconv.Atoi(c.Query("limit"))

	logs, err := a.logs.ListRecent(user.ID, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取记录失败")
		return
	}

	respondList(c, len(logs), logs)
}

// UpdateLog 更新用餐记录
func (a *API) UpdateLog(c *gin.Context) {
	user, _ := currentUser(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的记录ID")
		return
	}

	var req updateLogRequest
	if !bindJSON(c, &req, "请求体格式不正确") {
		return
	}

	log, err := a.logs.Update(id, user.ID, isAdmin(c), service.MealLogUpdate{
		FoodID:   req.FoodID,
		Quantity: req.Quantity,
		MealType: req.MealType,
		Date:     req.Date,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMealLogNotFound):
			respondError(c, http.StatusNotFound, "记录不存在")
		case errors.Is(err, service.ErrPermissionDenied):
			respondError(c, http.StatusForbidden, "没有权限操作该记录")
		case errors.Is(err, service.ErrFoodNotFound):
			respondError(c, http.StatusNotFound, "食物不存在")
		case errors.Is(err, service.ErrInvalidMealType):
			respondError(c, http.StatusBadRequest, "无效的餐次")
		case errors.Is(err, service.ErrInvalidQuantity):
			respondError(c, http.StatusBadRequest, "数量必须为正数")
		default:
			respondError(c, http.StatusInternalServerError, "更新记录失败")
		}
		return
	}

	respondMessage(c, http.StatusOK, "记录更新成功", log)
}

// DeleteLog 删除用餐记录
func (a *API) DeleteLog(c *gin.Context) {
	user, _ := currentUser(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的记录ID")
		return
	}

	if err := a.logs.Delete(id, user.ID, isAdmin(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrMealLogNotFound):
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

// GetTodayTotals 获取今天的营养总量
func (a *API) GetTodayTotals(c *gin.Context) {
	user, _ := currentUser(c)

	totals, err := a.nutrition.TotalsForToday(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取总量失败")
		return
	}

	respondData(c, http.StatusOK, totals)
}

// GetTotalsByDate 获取指定日期的营养总量
func (a *API) GetTotalsByDate(c *gin.Context) {
	user, _ := currentUser(c)

	day, err := parseDate(c.Param("date"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "日期格式不正确，应为 YYYY-MM-DD")
		return
	}

	totals, err := a.nutrition.TotalsForDay(user.ID, day)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取总量失败")
		return
	}

	respondData(c, http.StatusOK, totals)
}

// GetTotalsRange 获取日期区间内的营养总量
func (a *API) GetTotalsRange(c *gin.Context) {
	user, _ := currentUser(c)

	start, end, ok := rangeQuery(c)
	if !ok {
		return
	}

	totals, err := a.nutrition.TotalsRange(user.ID, start, end)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取总量失败")
		return
	}

	respondList(c, len(totals), totals)
}

// GetWeeklySummary 获取一周（周一起算）的平均摄入
func (a *API) GetWeeklySummary(c *gin.Context) {
	user, _ := currentUser(c)

	var weekStart *time.Time
	if raw := c.Query("weekStart"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "日期格式不正确，应为 YYYY-MM-DD")
			return
		}
		weekStart = &parsed
	}

	summary, err := a.nutrition.WeeklySummary(user.ID, weekStart)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取周汇总失败")
		return
	}

	respondData(c, http.StatusOK, summary)
}
