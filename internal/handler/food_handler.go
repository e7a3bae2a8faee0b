package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/MohamadAmiin/diet-app-just-project/internal/service"
	"github.com/gin-gonic/gin"
)

type foodRequest struct {
	Name        string   `json:"name" binding:"required"`
	Calories    *float64 `json:"calories" binding:"required"`
	Protein     *float64 `json:"protein" binding:"required"`
	Carbs       *float64 `json:"carbs" binding:"required"`
	Fats        *float64 `json:"fats" binding:"required"`
	ServingSize string   `json:"servingSize"`
	Category    string   `json:"category"`
}

func (r foodRequest) toInput() service.FoodInput {
	return service.FoodInput{
		Name:        r.Name,
		Calories:    *r.Calories,
		Protein:     *r.Protein,
		Carbs:       *r.Carbs,
		Fats:        *r.Fats,
		ServingSize: r.ServingSize,
		Category:    r.Category,
	}
}

// ListFoods 获取食物列表，支持分类过滤与名称搜索
func (a *API) ListFoods(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	foods, err := a.foods.List(service.FoodFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Limit:    limit,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取食物列表失败")
		return
	}

	respondList(c, len(foods), foods)
}

// GetFood 获取单个食物
func (a *API) GetFood(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的食物ID")
		return
	}

	food, err := a.foods.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrFoodNotFound) {
			respondError(c, http.StatusNotFound, "食物不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取食物失败")
		return
	}

	respondData(c, http.StatusOK, food)
}

// CreateFood 创建食物（仅管理员）
func (a *API) CreateFood(c *gin.Context) {
	user, _ := currentUser(c)

	var req foodRequest
	if !bindJSON(c, &req, "名称、热量和三大营养素均为必填项") {
		return
	}

	food, err := a.foods.Create(user.ID, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrFoodInvalid) {
			respondError(c, http.StatusBadRequest, "食物字段不合法")
			return
		}
		respondError(c, http.StatusInternalServerError, "创建食物失败")
		return
	}

	respondMessage(c, http.StatusCreated, "食物创建成功", food)
}

// UpdateFood 更新食物（仅管理员）
func (a *API) UpdateFood(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的食物ID")
		return
	}

	var req foodRequest
	if !bindJSON(c, &req, "名称、热量和三大营养素均为必填项") {
		return
	}

	food, err := a.foods.Update(id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFoodNotFound):
			respondError(c, http.StatusNotFound, "食物不存在")
		case errors.Is(err, service.ErrFoodInvalid):
			respondError(c, http.StatusBadRequest, "食物字段不合法")
		default:
			respondError(c, http.StatusInternalServerError, "更新食物失败")
		}
		return
	}

	respondMessage(c, http.StatusOK, "食物更新成功", food)
}

// DeleteFood 删除食物（仅管理员）
func (a *API) DeleteFood(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的食物ID")
		return
	}

	if err := a.foods.Delete(id); err != nil {
		if errors.Is(err, service.ErrFoodNotFound) {
			respondError(c, http.StatusNotFound, "食物不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "删除食物失败")
		return
	}

	respondMessage(c, http.StatusOK, "食物删除成功", nil)
}
