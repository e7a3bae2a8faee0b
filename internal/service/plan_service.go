package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/MohamadAmiin/diet-app-just-project/internal/db"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"
)

var (
	// ErrPlanNotFound 在指定计划不存在时返回
	ErrPlanNotFound = errors.New("plan not found")
	// ErrPlanItemNotFound 在指定计划条目不存在时返回
	ErrPlanItemNotFound = errors.New("plan item not found")
	// ErrNoActivePlan 在用户没有启用中的计划时返回
	ErrNoActivePlan = errors.New("no active plan")
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	descriptionSanitizer = bluemonday.UGCPolicy()
)

// PlanService 负责饮食计划及其条目的管理。
// 计划总量在每次条目变动后整体重算，不做增量调整。
type PlanService struct {
	db *gorm.DB
}

// PlanItemInput 定义添加计划条目的输入对象
type PlanItemInput struct {
	FoodID   uint
	Quantity float64
	MealType string
}

// PlanInput 定义创建计划的输入对象
type PlanInput struct {
	Name        string
	Description string
	Items       []PlanItemInput
}

// PlanUpdate 定义计划的部分更新，nil 表示不变。
// Items 非 nil 时整体替换全部条目。
type PlanUpdate struct {
	Name        *string
	Description *string
	Items       *[]PlanItemInput
}

// planTotals 是整体重算出的计划总量
type planTotals struct {
	Calories int
	Protein  float64
	Carbs    float64
	Fats     float64
}

// NewPlanService 构造 PlanService
func NewPlanService(gdb *gorm.DB) *PlanService {
	return &PlanService{db: gdb}
}

// RenderDescription 将计划描述从 Markdown 渲染为消毒后的 HTML
func RenderDescription(markdown string) string {
	trimmed := strings.TrimSpace(markdown)
	if trimmed == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(trimmed), &buf); err != nil {
		return ""
	}
	return descriptionSanitizer.Sanitize(buf.String())
}

// buildItems 解析条目输入并生成热量快照。
// 引用不存在食物的条目会被静默跳过，与总量重算的策略一致。
func (s *PlanService) buildItems(inputs []PlanItemInput) ([]db.PlanItem, error) {
	items := make([]db.PlanItem, 0, len(inputs))
	for _, input := range inputs {
		if !db.ValidMealType(input.MealType) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidMealType, input.MealType)
		}

		quantity := input.Quantity
		if quantity == 0 {
			quantity = 1
		}
		if quantity < 0 {
			return nil, ErrInvalidQuantity
		}

		var food db.Food
		if err := s.db.First(&food, input.FoodID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("load food: %w", err)
		}

		items = append(items, db.PlanItem{
			FoodID:   food.ID,
			Quantity: quantity,
			MealType: input.MealType,
			Calories: roundInt(food.Calories * quantity),
		})
	}
	return items, nil
}

// recomputeTotals 按条目逐一回查食物并整体求和。
// 先累加原始值，最后统一取整/保留一位小数；被删除的食物静默跳过。
func (s *PlanService) recomputeTotals(items []db.PlanItem) (planTotals, error) {
	var calories, protein, carbs, fats float64

	for _, item := range items {
		var food db.Food
		if err := s.db.First(&food, item.FoodID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return planTotals{}, fmt.Errorf("load food: %w", err)
		}

		calories += food.Calories * item.Quantity
		protein += food.Protein * item.Quantity
		carbs += food.Carbs * item.Quantity
		fats += food.Fats * item.Quantity
	}

	return planTotals{
		Calories: roundInt(calories),
		Protein:  round1(protein),
		Carbs:    round1(carbs),
		Fats:     round1(fats),
	}, nil
}

func (s *PlanService) applyTotals(plan *db.DietPlan) error {
	totals, err := s.recomputeTotals(plan.Items)
	if err != nil {
		return err
	}
	plan.TotalCalories = totals.Calories
	plan.TotalProtein = totals.Protein
	plan.TotalCarbs = totals.Carbs
	plan.TotalFats = totals.Fats
	return nil
}

// Create 新建饮食计划
func (s *PlanService) Create(userID uint, input PlanInput) (*db.DietPlan, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = "我的饮食计划"
	}

	items, err := s.buildItems(input.Items)
	if err != nil {
		return nil, err
	}

	plan := db.DietPlan{
		UserID:      userID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Items:       items,
	}
	if err := s.applyTotals(&plan); err != nil {
		return nil, err
	}

	if err := s.db.Create(&plan).Error; err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}

	return s.load(plan.ID)
}

// List 返回用户的全部计划，按创建时间降序
func (s *PlanService) List(userID uint) ([]db.DietPlan, error) {
	var plans []db.DietPlan
	if err := s.db.Preload("Items").Preload("Items.Food").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

// Get 返回指定计划，非本人且非管理员时拒绝
func (s *PlanService) Get(id, userID uint, isAdmin bool) (*db.DietPlan, error) {
	plan, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID && !isAdmin {
		return nil, ErrPermissionDenied
	}
	return plan, nil
}

// Active 返回用户当前启用的计划
func (s *PlanService) Active(userID uint) (*db.DietPlan, error) {
	var plan db.DietPlan
	if err := s.db.Preload("Items").Preload("Items.Food").
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActivePlan
		}
		return nil, fmt.Errorf("load active plan: %w", err)
	}
	return &plan, nil
}

// Activate 将指定计划设为启用，同一用户此前启用的计划全部停用。
// 两步更新放在同一事务里，保证任意时刻至多一个启用计划。
func (s *PlanService) Activate(id, userID uint) (*db.DietPlan, error) {
	plan, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrPermissionDenied
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.DietPlan{}).
			Where("user_id = ?", userID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&db.DietPlan{}).
			Where("id = ?", id).
			Update("is_active", true).Error
	}); err != nil {
		return nil, fmt.Errorf("activate plan: %w", err)
	}

	return s.load(id)
}

// Update 更新计划。Items 给出时整体替换全部条目并重算总量。
func (s *PlanService) Update(id, userID uint, isAdmin bool, update PlanUpdate) (*db.DietPlan, error) {
	plan, err := s.Get(id, userID, isAdmin)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name != "" {
			plan.Name = name
		}
	}
	if update.Description != nil {
		plan.Description = strings.TrimSpace(*update.Description)
	}

	if update.Items != nil {
		items, err := s.buildItems(*update.Items)
		if err != nil {
			return nil, err
		}

		if err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("plan_id = ?", plan.ID).Delete(&db.PlanItem{}).Error; err != nil {
				return err
			}
			for i := range items {
				items[i].PlanID = plan.ID
				if err := tx.Create(&items[i]).Error; err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return nil, fmt.Errorf("replace plan items: %w", err)
		}

		plan.Items = items
	}

	if err := s.applyTotals(plan); err != nil {
		return nil, err
	}

	if err := s.db.Omit("Items").Save(plan).Error; err != nil {
		return nil, fmt.Errorf("update plan: %w", err)
	}

	return s.load(plan.ID)
}

// AddItem 向计划添加一个条目并重算总量。
// 与创建计划不同，这里引用不存在的食物直接报错。
func (s *PlanService) AddItem(planID, userID uint, isAdmin bool, input PlanItemInput) (*db.DietPlan, error) {
	plan, err := s.Get(planID, userID, isAdmin)
	if err != nil {
		return nil, err
	}

	if !db.ValidMealType(input.MealType) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMealType, input.MealType)
	}

	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	var food db.Food
	if err := s.db.First(&food, input.FoodID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFoodNotFound
		}
		return nil, fmt.Errorf("load food: %w", err)
	}

	item := db.PlanItem{
		PlanID:   plan.ID,
		FoodID:   food.ID,
		Quantity: quantity,
		MealType: input.MealType,
		Calories: roundInt(food.Calories * quantity),
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("add plan item: %w", err)
	}

	return s.refreshTotals(plan.ID)
}

// RemoveItem 从计划移除一个条目并重算总量
func (s *PlanService) RemoveItem(planID, itemID, userID uint, isAdmin bool) (*db.DietPlan, error) {
	plan, err := s.Get(planID, userID, isAdmin)
	if err != nil {
		return nil, err
	}

	result := s.db.Where("plan_id = ?", plan.ID).Delete(&db.PlanItem{}, itemID)
	if result.Error != nil {
		return nil, fmt.Errorf("remove plan item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrPlanItemNotFound
	}

	return s.refreshTotals(plan.ID)
}

// Delete 删除计划及其全部条目
func (s *PlanService) Delete(id, userID uint, isAdmin bool) error {
	plan, err := s.Get(id, userID, isAdmin)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", plan.ID).Delete(&db.PlanItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.DietPlan{}, plan.ID).Error
	})
}

// refreshTotals 重新加载条目、重算总量并保存
func (s *PlanService) refreshTotals(planID uint) (*db.DietPlan, error) {
	plan, err := s.load(planID)
	if err != nil {
		return nil, err
	}

	if err := s.applyTotals(plan); err != nil {
		return nil, err
	}

	if err := s.db.Omit("Items").Save(plan).Error; err != nil {
		return nil, fmt.Errorf("save plan totals: %w", err)
	}

	return plan, nil
}

func (s *PlanService) load(id uint) (*db.DietPlan, error) {
	var plan db.DietPlan
	if err := s.db.Preload("Items").Preload("Items.Food").First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("load plan: %w", err)
	}
	return &plan, nil
}
