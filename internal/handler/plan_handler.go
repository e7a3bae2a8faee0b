package handler

import (
	"errors"
	"net/http"

	"github.com/MohamadAmiin/diet-app-just-project/internal/db"
	"github.com/MohamadAmiin/diet-app-just-project/internal/service"
	"github.com/gin-gonic/gin"
)

type planItemRequest struct {
	FoodID   uint    `json:"foodId" binding:"required"`
	Quantity float64 `json:"quantity"`
	MealType string  `json:"mealType" binding:"required"`
}

type createPlanRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Items       []planItemRequest `json:"items"`
}

type updatePlanRequest struct {
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	Items       *[]planItemRequest `json:"items"`
}

// planResponse 在计划之上附带渲染好的描述 HTML
type planResponse struct {
	*db.DietPlan
	DescriptionHTML string `json:"descriptionHtml"`
}

func planView(plan *db.DietPlan) planResponse {
	return planResponse{
		DietPlan:        plan,
		DescriptionHTML: service.RenderDescription(plan.Description),
	}
}

func planViews(plans []db.DietPlan) []planResponse {
	views := make([]planResponse, 0, len(plans))
	for i := range plans {
		views = append(views, planView(&plans[i]))
	}
	return views
}

func toItemInputs(items []planItemRequest) []service.PlanItemInput {
	inputs := make([]service.PlanItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, service.PlanItemInput{
			FoodID:   item.FoodID,
			Quantity: item.Quantity,
			MealType: item.MealType,
		})
	}
	return inputs
}

func respondPlanError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		respondError(c, http.StatusNotFound, "计划不存在")
	case errors.Is(err, service.ErrPlanItemNotFound):
		respondError(c, http.StatusNotFound, "计划条目不存在")
	case errors.Is(err, service.ErrPermissionDenied):
		respondError(c, http.StatusForbidden, "没有权限操作该计划")
	case errors.Is(err, service.ErrFoodNotFound):
		respondError(c, http.StatusNotFound, "食物不存在")
	case errors.Is(err, service.ErrInvalidMealType):
		respondError(c, http.StatusBadRequest, "无效的餐次")
	case errors.Is(err, service.ErrInvalidQuantity):
		respondError(c, http.StatusBadRequest, "数量必须为正数")
	default:
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

// CreatePlan 创建饮食计划
func (a *API) CreatePlan(c *gin.Context) {
	user, _ := currentUser(c)

	var req createPlanRequest
	if !bindJSON(c, &req, "请求体格式不正确") {
		return
	}

	plan, err := a.plans.Create(user.ID, service.PlanInput{
		Name:        req.Name,
		Description: req.Description,
		Items:       toItemInputs(req.Items),
	})
	if err != nil {
		respondPlanError(c, err, "创建计划失败")
		return
	}

	respondMessage(c, http.StatusCreated, "计划创建成功", planView(plan))
}

// ListPlans 返回当前用户的全部计划
func (a *API) ListPlans(c *gin.Context) {
	user, _ := currentUser(c)

	plans, err := a.plans.List(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取计划列表失败")
		return
	}

	respondList(c, len(plans), planViews(plans))
}

// GetPlan 返回单个计划
func (a *API) GetPlan(c *gin.Context) {
	user, _ := currentUser(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的计划ID")
		return
	}

	plan, err := a.plans.Get(id, user.ID, isAdmin(c))
	if err != nil {
		respondPlanError(c, err, "获取计划失败")
		return
	}

	respondData(c, http.StatusOK, planView(plan))
}

// GetActivePlan 返回当前启用的计划
func (a *API) GetActivePlan(c *gin.Context) {
	user, _ := currentUser(c)

	plan, err := a.plans.Active(user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNoActivePlan) {
			respondError(c, http.StatusNotFound, "当前没有启用的计划")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取计划失败")
		return
	}

	respondData(c, http.StatusOK, planView(plan))
}

// ActivatePlan 启用指定计划，其余计划自动停用
func (a *API) ActivatePlan(c *gin.Context) {
	user, _ := currentUser(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的计划ID")
		return
	}

	plan, err := a.plans.Activate(id, user.ID)
	if err != nil {
		respondPlanError(c, err, "启用计划失败")
		return
	}

	respondMessage(c, http.StatusOK, "计划已启用", planView(plan))
}

// UpdatePlan 更新计划，items 给出时整体替换
func (a *API) UpdatePlan(c *gin.Context) {
	user, _ := currentUser(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的计划ID")
		return
	}

	var req updatePlanRequest
	if !bindJSON(c, &req, "请求体格式不正确") {
		return
	}

	update := service.PlanUpdate{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Items != nil {
		inputs := toItemInputs(*req.Items)
		update.Items = &inputs
	}

	plan, err := a.plans.Update(id, user.ID, isAdmin(c), update)
	if err != nil {
		respondPlanError(c, err, "更新计划失败")
		return
	}

	respondMessage(c, http.StatusOK, "计划更新成功", planView(plan))
}

// AddPlanItem 向计划添加条目
func (a *API) AddPlanItem(c *gin.Context) {
	user, _ := currentUser(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的计划ID")
		return
	}

	var req planItemRequest
	if !bindJSON(c, &req, "foodId 和 mealType 为必填项") {
		return
	}

	plan, err := a.plans.AddItem(id, user.ID, isAdmin(c), service.PlanItemInput{
		FoodID:   req.FoodID,
		Quantity: req.Quantity,
		MealType: req.MealType,
	})
	if err != nil {
		respondPlanError(c, err, "添加条目失败")
		return
	}

	respondMessage(c, http.StatusOK, "条目添加成功", planView(plan))
}

// RemovePlanItem 从计划移除条目
func (a *API) RemovePlanItem(c *gin.Context) {
	user, _ := currentUser(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的计划ID")
		return
	}

	itemID, err := parseUintParam(c, "itemId")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的条目ID")
		return
	}

	plan, err := a.plans.RemoveItem(id, itemID, user.ID, isAdmin(c))
	if err != nil {
		respondPlanError(c, err, "移除条目失败")
		return
	}

	respondMessage(c, http.StatusOK, "条目移除成功", planView(plan))
}

// DeletePlan 删除计划及其条目
func (a *API) DeletePlan(c *gin.Context) {
	user, _ := currentUser(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的计划ID")
		return
	}

	if err := a.plans.Delete(id, user.ID, isAdmin(c)); err != nil {
		respondPlanError(c, err, "删除计划失败")
		return
	}

	respondMessage(c, http.StatusOK, "计划删除成功", nil)
}

// CalculateCalories 按档案估算每日热量与三大营养素目标。
// 档案中年龄、身高、体重任一缺失时返回 400。
func (a *API) CalculateCalories(c *gin.Context) {
	user, _ := currentUser(c)

	profile, err := a.profiles.Get(user.ID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			respondError(c, http.StatusBadRequest, "请先完善个人档案（年龄、身高、体重）")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取档案失败")
		return
	}

	if profile.Age <= 0 || profile.Height <= 0 || profile.Weight <= 0 {
		respondError(c, http.StatusBadRequest, "请先完善个人档案（年龄、身高、体重）")
		return
	}

	sex := c.DefaultQuery("gender", service.SexMale)
	calories := service.EstimateDailyCalories(*profile, sex)
	macros := service.EstimateMacros(calories, profile.Goal)

	respondData(c, http.StatusOK, gin.H{
		"dailyCalories": calories,
		"macros":        macros,
		"goal":          profile.Goal,
		"profile": gin.H{
			"age":    profile.Age,
			"height": profile.Height,
			"weight": profile.Weight,
		},
	})
}
