package service

import (
	"github.com/MohamadAmiin/diet-app-just-project/internal/db"
)

// 性别取值，未识别时按男性公式处理
const (
	SexMale   = "male"
	SexFemale = "female"
)

// 固定采用"中等活动量"系数，如需更多档位应改为参数而非再加常量
const activityMultiplier = 1.55

// MacroTargets 给出三大营养素的每日克数目标
type MacroTargets struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fats    int `json:"fats"`
}

// EstimateDailyCalories 按 Harris-Benedict 公式估算每日热量需求。
// 先算基础代谢，乘活动系数得到 TDEE，再按目标增减：
// 减重 -500 kcal，增重/增肌 +300 kcal，维持不调整。
// 调用方需保证档案中年龄、身高、体重齐全，这里不做校验。
func EstimateDailyCalories(profile db.Profile, sex string) int {
	var bmr float64
	if sex == SexFemale {
		bmr = 447.593 + 9.247*profile.Weight + 3.098*profile.Height - 4.330*float64(profile.Age)
	} else {
		bmr = 88.362 + 13.397*profile.Weight + 4.799*profile.Height - 5.677*float64(profile.Age)
	}

	tdee := bmr * activityMultiplier

	switch profile.Goal {
	case db.GoalLoseWeight:
		tdee -= 500
	case db.GoalGainWeight, db.GoalBuildMuscle:
		tdee += 300
	}

	return roundInt(tdee)
}

// EstimateMacros 将热量目标按目标相关的固定比例拆成三大营养素克数。
// 蛋白质与碳水按 4 kcal/g 折算，脂肪按 9 kcal/g。
func EstimateMacros(calories int, goal string) MacroTargets {
	var proteinRatio, carbsRatio, fatsRatio float64

	switch goal {
	case db.GoalLoseWeight:
		proteinRatio, carbsRatio, fatsRatio = 0.35, 0.35, 0.30
	case db.GoalBuildMuscle:
		proteinRatio, carbsRatio, fatsRatio = 0.30, 0.45, 0.25
	default:
		proteinRatio, carbsRatio, fatsRatio = 0.25, 0.50, 0.25
	}

	total := float64(calories)

	return MacroTargets{
		Protein: roundInt(total * proteinRatio / 4),
		Carbs:   roundInt(total * carbsRatio / 4),
		Fats:    roundInt(total * fatsRatio / 9),
	}
}
