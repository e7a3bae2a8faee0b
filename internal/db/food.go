package db

import "gorm.io/gorm"

// Food 定义了食物库条目，营养值均为单份数值
// Protein/Carbs/Fats 单位克
type Food struct {
	gorm.Model
	Name        string  `gorm:"not null;index" json:"name"`
	Calories    float64 `gorm:"not null" json:"calories"`
	Protein     float64 `gorm:"not null" json:"protein"`
	Carbs       float64 `gorm:"not null" json:"carbs"`
	Fats        float64 `gorm:"not null" json:"fats"`
	ServingSize string  `gorm:"default:100g" json:"servingSize"`
	Category    string  `gorm:"index;default:other" json:"category"`
	CreatedByID uint    `json:"createdById"`
}

// 食物分类枚举
var foodCategories = map[string]struct{}{
	"protein":    {},
	"carbs":      {},
	"vegetables": {},
	"fruits":     {},
	"dairy":      {},
	"fats":       {},
	"snacks":     {},
	"beverages":  {},
	"other":      {},
}

// ValidFoodCategory 判断分类取值是否在枚举范围内
func ValidFoodCategory(category string) bool {
	_, ok := foodCategories[category]
	return ok
}
