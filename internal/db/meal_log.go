package db

import (
	"time"

	"gorm.io/gorm"
)

// 餐次枚举
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// MealLog 定义了单条用餐记录。
// 营养字段是记录创建时按食物单份数值 × 数量计算的快照，
// 之后食物库的修改不会影响历史记录。
type MealLog struct {
	gorm.Model
	UserID   uint      `gorm:"index:idx_meal_logs_user_date;not null" json:"userId"`
	FoodID   uint      `gorm:"not null" json:"foodId"`
	Food     *Food     `json:"food,omitempty"`
	Quantity float64   `gorm:"not null;default:1" json:"quantity"`
	MealType string    `gorm:"not null" json:"mealType"`
	Date     time.Time `gorm:"index:idx_meal_logs_user_date;not null" json:"date"`
	Calories int       `json:"calories"`
	Protein  float64   `json:"protein"`
	Carbs    float64   `json:"carbs"`
	Fats     float64   `json:"fats"`
}

// ValidMealType 判断餐次取值是否在枚举范围内
func ValidMealType(mealType string) bool {
	switch mealType {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}
