package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/MohamadAmiin/diet-app-just-project/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NutritionService 负责按天聚合营养总量以及区间/按周汇总。
// 每次重算都从当天的用餐记录整体求和，不做增量修补，
// 因此对同一份记录集重复调用结果一致。
type NutritionService struct {
	db  *gorm.DB
	now func() time.Time
}

// WeeklySummary 汇总一周（周一起算）的平均摄入
type WeeklySummary struct {
	WeekStart       time.Time `json:"weekStart"`
	DaysLogged      int       `json:"daysLogged"`
	AverageCalories int       `json:"averageCalories"`
	AverageProtein  float64   `json:"averageProtein"`
	AverageCarbs    float64   `json:"averageCarbs"`
	AverageFats     float64   `json:"averageFats"`
	TotalMeals      int       `json:"totalMeals"`
}

// NewNutritionService 构造 NutritionService，默认使用系统时钟
func NewNutritionService(gdb *gorm.DB) *NutritionService {
	return &NutritionService{db: gdb, now: time.Now}
}

// WithClock 注入时间源，便于测试固定"今天"的取值
func (s *NutritionService) WithClock(now func() time.Time) *NutritionService {
	if now != nil {
		s.now = now
	}
	return s
}

// RecomputeDailyTotals 重算某用户某天的营养总量并整体覆盖持久化。
// 求和使用记录上的营养快照而非回查食物库。没有任何记录时写入零值，
// 不会报错。
func (s *NutritionService) RecomputeDailyTotals(userID uint, day time.Time) (*db.DailyTotal, error) {
	start, end := dayBounds(day)

	var logs []db.MealLog
	if err := s.db.Where("user_id = ?", userID).
		Where("date BETWEEN ? AND ?", start, end).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("load meal logs: %w", err)
	}

	var calories, protein, carbs, fats float64
	for _, log := range logs {
		calories += float64(log.Calories)
		protein += log.Protein
		carbs += log.Carbs
		fats += log.Fats
	}

	total := db.DailyTotal{
		UserID:        userID,
		Date:          start,
		TotalCalories: roundInt(calories),
		TotalProtein:  round1(protein),
		TotalCarbs:    round1(carbs),
		TotalFats:     round1(fats),
		MealsCount:    len(logs),
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_calories", "total_protein", "total_carbs", "total_fats", "meals_count", "updated_at",
		}),
	}).Create(&total).Error; err != nil {
		return nil, fmt.Errorf("upsert daily total: %w", err)
	}

	if err := s.db.Where("user_id = ? AND date = ?", userID, start).First(&total).Error; err != nil {
		return nil, fmt.Errorf("reload daily total: %w", err)
	}

	return &total, nil
}

// TotalsForToday 返回今天的总量，没有记录时返回零值对象
func (s *NutritionService) TotalsForToday(userID uint) (*db.DailyTotal, error) {
	return s.TotalsForDay(userID, s.now())
}

// TotalsForDay 返回某天的总量，没有记录时返回零值对象（不落库）
func (s *NutritionService) TotalsForDay(userID uint, day time.Time) (*db.DailyTotal, error) {
	start := normalizeToDate(day)

	var total db.DailyTotal
	if err := s.db.Where("user_id = ? AND date = ?", userID, start).First(&total).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &db.DailyTotal{UserID: userID, Date: start}, nil
		}
		return nil, fmt.Errorf("load daily total: %w", err)
	}

	return &total, nil
}

// TotalsRange 按日期升序返回区间内已有的总量记录，缺天不补零
func (s *NutritionService) TotalsRange(userID uint, start, end time.Time) ([]db.DailyTotal, error) {
	rangeStart := normalizeToDate(start)
	_, rangeEnd := dayBounds(end)

	var totals []db.DailyTotal
	if err := s.db.Where("user_id = ?", userID).
		Where("date BETWEEN ? AND ?", rangeStart, rangeEnd).
		Order("date ASC").
		Find(&totals).Error; err != nil {
		return nil, fmt.Errorf("load daily totals: %w", err)
	}

	return totals, nil
}

// WeeklySummary 计算一周的平均摄入。weekStart 为空时取最近的周一。
// 平均值只在有记录的天数上计算，没有记录的天不计入分母；
// 一周内完全没有记录时各平均值为 0，DaysLogged 为 0。
func (s *NutritionService) WeeklySummary(userID uint, weekStart *time.Time) (*WeeklySummary, error) {
	var start time.Time
	if weekStart != nil {
		start = normalizeToDate(*weekStart)
	} else {
		start = mostRecentMonday(s.now())
	}
	end := start.AddDate(0, 0, 7)

	var totals []db.DailyTotal
	if err := s.db.Where("user_id = ?", userID).
		Where("date >= ? AND date < ?", start, end).
		Find(&totals).Error; err != nil {
		return nil, fmt.Errorf("load weekly totals: %w", err)
	}

	summary := &WeeklySummary{WeekStart: start, DaysLogged: len(totals)}

	if len(totals) > 0 {
		var calories, protein, carbs, fats float64
		for _, day := range totals {
			calories += float64(day.TotalCalories)
			protein += day.TotalProtein
			carbs += day.TotalCarbs
			fats += day.TotalFats
			summary.TotalMeals += day.MealsCount
		}

		n := float64(len(totals))
		summary.AverageCalories = roundInt(calories / n)
		summary.AverageProtein = round1(protein / n)
		summary.AverageCarbs = round1(carbs / n)
		summary.AverageFats = round1(fats / n)
	}

	return summary, nil
}

// mostRecentMonday 返回相对 t 的本周周一零点。
// 周日视为一周的最后一天，回退 6 天。
func mostRecentMonday(t time.Time) time.Time {
	day := normalizeToDate(t)
	weekday := int(day.Weekday())
	if weekday == 0 {
		return day.AddDate(0, 0, -6)
	}
	return day.AddDate(0, 0, -(weekday - 1))
}
