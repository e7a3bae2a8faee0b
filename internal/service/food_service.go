package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MohamadAmiin/diet-app-just-project/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrFoodNotFound 在指定食物不存在时返回
	ErrFoodNotFound = errors.New("food not found")
	// ErrFoodInvalid 在食物字段校验失败时返回
	ErrFoodInvalid = errors.New("invalid food")
)

// FoodService 负责食物库的增删改查
// 写操作仅管理员可用，权限在 handler 层把关
type FoodService struct {
	db *gorm.DB
}

// FoodInput 定义创建/更新食物时可配置字段
type FoodInput struct {
	Name        string
	Calories    float64
	Protein     float64
	Carbs       float64
	Fats        float64
	ServingSize string
	Category    string
}

// FoodFilter 描述列表过滤条件
type FoodFilter struct {
	Category string
	Search   string
	Limit    int
}

// NewFoodService 构造 FoodService
func NewFoodService(gdb *gorm.DB) *FoodService {
	return &FoodService{db: gdb}
}

// List 返回食物集合，支持分类过滤与名称模糊搜索，limit 默认 50
func (s *FoodService) List(filter FoodFilter) ([]db.Food, error) {
	query := s.db.Model(&db.Food{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", strings.TrimSpace(filter.Search))
		query = query.Where("name LIKE ?", like)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var foods []db.Food
	if err := query.Limit(limit).Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}

	return foods, nil
}

// Get 根据 ID 获取食物
func (s *FoodService) Get(id uint) (*db.Food, error) {
	var food db.Food
	if err := s.db.First(&food, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFoodNotFound
		}
		return nil, fmt.Errorf("get food: %w", err)
	}
	return &food, nil
}

// Create 新建食物条目
func (s *FoodService) Create(creatorID uint, input FoodInput) (*db.Food, error) {
	food, err := buildFood(input)
	if err != nil {
		return nil, err
	}
	food.CreatedByID = creatorID

	if err := s.db.Create(food).Error; err != nil {
		return nil, fmt.Errorf("create food: %w", err)
	}
	return food, nil
}

// Update 更新食物条目。历史用餐记录保存的是快照，不受影响。
func (s *FoodService) Update(id uint, input FoodInput) (*db.Food, error) {
	var existing db.Food
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFoodNotFound
		}
		return nil, fmt.Errorf("find food: %w", err)
	}

	updated, err := buildFood(input)
	if err != nil {
		return nil, err
	}

	existing.Name = updated.Name
	existing.Calories = updated.Calories
	existing.Protein = updated.Protein
	existing.Carbs = updated.Carbs
	existing.Fats = updated.Fats
	existing.ServingSize = updated.ServingSize
	existing.Category = updated.Category

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("update food: %w", err)
	}
	return &existing, nil
}

// Delete 删除食物条目。引用它的计划条目在重算时会被静默跳过。
func (s *FoodService) Delete(id uint) error {
	result := s.db.Delete(&db.Food{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete food: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFoodNotFound
	}
	return nil
}

func buildFood(input FoodInput) (*db.Food, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrFoodInvalid)
	}
	if input.Calories < 0 || input.Protein < 0 || input.Carbs < 0 || input.Fats < 0 {
		return nil, fmt.Errorf("%w: nutrition values cannot be negative", ErrFoodInvalid)
	}

	servingSize := strings.TrimSpace(input.ServingSize)
	if servingSize == "" {
		servingSize = "100g"
	}

	category := strings.TrimSpace(strings.ToLower(input.Category))
	if category == "" {
		category = "other"
	}
	if !db.ValidFoodCategory(category) {
		return nil, fmt.Errorf("%w: unsupported category %s", ErrFoodInvalid, input.Category)
	}

	return &db.Food{
		Name:        name,
		Calories:    input.Calories,
		Protein:     input.Protein,
		Carbs:       input.Carbs,
		Fats:        input.Fats,
		ServingSize: servingSize,
		Category:    category,
	}, nil
}
