package db

import (
	"time"

	"gorm.io/gorm"
)

// DailyTotal 定义了按天聚合的营养总量，(UserID, Date) 唯一。
// Date 统一规整到当地时区的零点。
type DailyTotal struct {
	gorm.Model
	UserID        uint      `gorm:"uniqueIndex:idx_daily_totals_user_date;not null" json:"userId"`
	Date          time.Time `gorm:"uniqueIndex:idx_daily_totals_user_date;not null" json:"date"`
	TotalCalories int       `json:"totalCalories"`
	TotalProtein  float64   `json:"totalProtein"`
	TotalCarbs    float64   `json:"totalCarbs"`
	TotalFats     float64   `json:"totalFats"`
	MealsCount    int       `json:"mealsCount"`
}
