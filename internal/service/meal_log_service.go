package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/MohamadAmiin/diet-app-just-project/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrMealLogNotFound 在指定用餐记录不存在时返回
	ErrMealLogNotFound = errors.New("meal log not found")
	// ErrInvalidMealType 在餐次取值不在枚举范围内时返回
	ErrInvalidMealType = errors.New("invalid meal type")
	// ErrInvalidQuantity 在数量非正时返回
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// MealLogService 负责用餐记录的增删改查。
// 每次写操作之后都会触发当天总量的整体重算。
type MealLogService struct {
	db        *gorm.DB
	nutrition *NutritionService
}

// MealLogInput 定义记录一餐时的输入对象
type MealLogInput struct {
	FoodID   uint
	Quantity float64
	MealType string
	Date     time.Time
}

// MealLogUpdate 定义更新记录时可修改的字段，nil 表示不变
type MealLogUpdate struct {
	FoodID   *uint
	Quantity *float64
	MealType *string
	Date     *time.Time
}

// NewMealLogService 构造 MealLogService
func NewMealLogService(gdb *gorm.DB, nutrition *NutritionService) *MealLogService {
	return &MealLogService{db: gdb, nutrition: nutrition}
}

// snapshotMacros 按食物单份数值 × 数量计算营养快照。
// 热量取整，克数保留一位小数。
func snapshotMacros(food db.Food, quantity float64) (int, float64, float64, float64) {
	return roundInt(food.Calories * quantity),
		round1(food.Protein * quantity),
		round1(food.Carbs * quantity),
		round1(food.Fats * quantity)
}

// Create 记录一餐：校验餐次与数量，落库营养快照并重算当天总量
func (s *MealLogService) Create(userID uint, input MealLogInput) (*db.MealLog, error) {
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

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	calories, protein, carbs, fats := snapshotMacros(food, quantity)

	log := db.MealLog{
		UserID:   userID,
		FoodID:   food.ID,
		Quantity: quantity,
		MealType: input.MealType,
		Date:     date,
		Calories: calories,
		Protein:  protein,
		Carbs:    carbs,
		Fats:     fats,
	}

	if err := s.db.Create(&log).Error; err != nil {
		return nil, fmt.Errorf("create meal log: %w", err)
	}

	if _, err := s.nutrition.RecomputeDailyTotals(userID, date); err != nil {
		return nil, err
	}

	log.Food = &food
	return &log, nil
}

// ListToday 返回今天的用餐记录，按时间升序
func (s *MealLogService) ListToday(userID uint) ([]db.MealLog, error) {
	return s.ListByDate(userID, s.nutrition.now())
}

// ListByDate 返回某天的用餐记录，按时间升序
func (s *MealLogService) ListByDate(userID uint, day time.Time) ([]db.MealLog, error) {
	start, end := dayBounds(day)
	return s.listBetween(userID, start, end)
}

// ListRange 返回日期区间内的用餐记录，按时间升序
func (s *MealLogService) ListRange(userID uint, startDate, endDate time.Time) ([]db.MealLog, error) {
	start := normalizeToDate(startDate)
	_, end := dayBounds(endDate)
	return s.listBetween(userID, start, end)
}

func (s *MealLogService) listBetween(userID uint, start, end time.Time) ([]db.MealLog, error) {
	var logs []db.MealLog
	if err := s.db.Preload("Food").
		Where("user_id = ?", userID).
		Where("date BETWEEN ? AND ?", start, end).
		Order("date ASC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list meal logs: %w", err)
	}
	return logs, nil
}

// ListRecent 返回最近的用餐记录，按时间降序，limit 默认 50
func (s *MealLogService) ListRecent(userID uint, limit int) ([]db.MealLog, error) {
	if limit <= 0 {
		limit = 50
	}

	var logs []db.MealLog
	if err := s.db.Preload("Food").
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list meal logs: %w", err)
	}
	return logs, nil
}

// Update 更新记录。数量或食物变化时重新计算营养快照，
// 日期变化时旧的一天和新的一天都会重算总量。
func (s *MealLogService) Update(id, userID uint, isAdmin bool, update MealLogUpdate) (*db.MealLog, error) {
	var log db.MealLog
	if err := s.db.First(&log, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMealLogNotFound
		}
		return nil, fmt.Errorf("find meal log: %w", err)
	}

	if log.UserID != userID && !isAdmin {
		return nil, ErrPermissionDenied
	}

	oldDate := log.Date

	if update.MealType != nil {
		if !db.ValidMealType(*update.MealType) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidMealType, *update.MealType)
		}
		log.MealType = *update.MealType
	}
	if update.Quantity != nil {
		if *update.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		log.Quantity = *update.Quantity
	}
	if update.FoodID != nil {
		log.FoodID = *update.FoodID
	}
	if update.Date != nil {
		log.Date = *update.Date
	}

	if update.Quantity != nil || update.FoodID != nil {
		var food db.Food
		if err := s.db.First(&food, log.FoodID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrFoodNotFound
			}
			return nil, fmt.Errorf("load food: %w", err)
		}
		log.Calories, log.Protein, log.Carbs, log.Fats = snapshotMacros(food, log.Quantity)
	}

	if err := s.db.Save(&log).Error; err != nil {
		return nil, fmt.Errorf("update meal log: %w", err)
	}

	if _, err := s.nutrition.RecomputeDailyTotals(log.UserID, oldDate); err != nil {
		return nil, err
	}
	if !normalizeToDate(log.Date).Equal(normalizeToDate(oldDate)) {
		if _, err := s.nutrition.RecomputeDailyTotals(log.UserID, log.Date); err != nil {
			return nil, err
		}
	}

	if err := s.db.Preload("Food").First(&log, log.ID).Error; err != nil {
		return nil, fmt.Errorf("reload meal log: %w", err)
	}

	return &log, nil
}

// Delete 删除记录并重算当天总量
func (s *MealLogService) Delete(id, userID uint, isAdmin bool) error {
	var log db.MealLog
	if err := s.db.First(&log, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMealLogNotFound
		}
		return fmt.Errorf("find meal log: %w", err)
	}

	if log.UserID != userID && !isAdmin {
		return ErrPermissionDenied
	}

	if err := s.db.Delete(&db.MealLog{}, id).Error; err != nil {
		return fmt.Errorf("delete meal log: %w", err)
	}

	_, err := s.nutrition.RecomputeDailyTotals(log.UserID, log.Date)
	return err
}
