package db

import "gorm.io/gorm"

// DietPlan 定义了饮食计划，总量字段在每次条目变动后整体重算
type DietPlan struct {
	gorm.Model
	UserID        uint       `gorm:"index:idx_diet_plans_user_active;not null" json:"userId"`
	Name          string     `gorm:"default:我的饮食计划" json:"name"`
	Description   string     `json:"description"`
	Items         []PlanItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	TotalCalories int        `json:"totalCalories"`
	TotalProtein  float64    `json:"totalProtein"`
	TotalCarbs    float64    `json:"totalCarbs"`
	TotalFats     float64    `json:"totalFats"`
	IsActive      bool       `gorm:"index:idx_diet_plans_user_active" json:"isActive"`
}

// PlanItem 定义了计划中的单个条目，Calories 为创建时的快照
type PlanItem struct {
	gorm.Model
	PlanID   uint    `gorm:"index;not null" json:"planId"`
	FoodID   uint    `gorm:"not null" json:"foodId"`
	Food     *Food   `json:"food,omitempty"`
	Quantity float64 `gorm:"not null;default:1" json:"quantity"`
	MealType string  `gorm:"not null" json:"mealType"`
	Calories int     `json:"calories"`
}
