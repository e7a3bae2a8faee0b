package db

import "gorm.io/gorm"

// 目标枚举，和前端下拉选项保持一致
const (
	GoalLoseWeight     = "lose_weight"
	GoalMaintainWeight = "maintain_weight"
	GoalGainWeight     = "gain_weight"
	GoalBuildMuscle    = "build_muscle"
)

// Profile 定义了用户档案，与账号一一对应
// Height 单位厘米，Weight 单位千克
type Profile struct {
	gorm.Model
	UserID             uint    `gorm:"uniqueIndex;not null" json:"userId"`
	Age                int     `json:"age"`
	Height             float64 `json:"height"`
	Weight             float64 `json:"weight"`
	Goal               string  `gorm:"default:maintain_weight" json:"goal"`
	DailyCalorieTarget int     `gorm:"default:2000" json:"dailyCalorieTarget"`
}

// ValidGoal 判断目标取值是否在枚举范围内
func ValidGoal(goal string) bool {
	switch goal {
	case GoalLoseWeight, GoalMaintainWeight, GoalGainWeight, GoalBuildMuscle:
		return true
	}
	return false
}
