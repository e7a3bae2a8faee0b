package service

import (
	"testing"
	"time"

	"github.com/MohamadAmiin/diet-app-just-project/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupProgressTestDB(t *testing.T) func() {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.Profile{}, &db.WeightEntry{}, &db.DailyTotal{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	return func() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func createWeightEntries(t *testing.T, userID uint, start time.Time, values ...float64) {
	t.Helper()
	for i, value := range values {
		entry := db.WeightEntry{
			UserID: userID,
			Value:  value,
			Date:   start.AddDate(0, 0, i),
		}
		if err := db.DB.Create(&entry).Error; err != nil {
			t.Fatalf("failed to create weight entry: %v", err)
		}
	}
}

func TestWeightProgressNoData(t *testing.T) {
	cleanup := setupProgressTestDB(t)
	defer cleanup()

	svc := NewProgressService(db.DB)

	progress, err := svc.WeightProgress(1)
	if err != nil {
		t.Fatalf("WeightProgress returned error: %v", err)
	}

	if progress.Trend != TrendNoData {
		t.Fatalf("expected no_data trend, got %s", progress.Trend)
	}
	if progress.CurrentWeight != nil || progress.StartWeight != nil {
		t.Fatalf("expected nil weights, got %+v", progress)
	}
}

func TestWeightProgressTrendThresholds(t *testing.T) {
	cleanup := setupProgressTestDB(t)
	defer cleanup()

	svc := NewProgressService(db.DB)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local)

	// 变化 +0.6 超过阈值，判为上升
	createWeightEntries(t, 1, start, 80.0, 80.6)
	progress, err := svc.WeightProgress(1)
	if err != nil {
		t.Fatalf("WeightProgress returned error: %v", err)
	}
	if progress.Trend != TrendGaining {
		t.Fatalf("expected gaining, got %s", progress.Trend)
	}
	if progress.TotalChange != 0.6 {
		t.Fatalf("expected total change 0.6, got %v", progress.TotalChange)
	}

	// 变化 +0.4 在阈值内，判为平稳
	createWeightEntries(t, 2, start, 80.0, 80.4)
	progress, err = svc.WeightProgress(2)
	if err != nil {
		t.Fatalf("WeightProgress returned error: %v", err)
	}
	if progress.Trend != TrendStable {
		t.Fatalf("expected stable, got %s", progress.Trend)
	}

	// 恰好 ±0.5 不算趋势变化
	createWeightEntries(t, 3, start, 80.0, 80.5)
	progress, err = svc.WeightProgress(3)
	if err != nil {
		t.Fatalf("WeightProgress returned error: %v", err)
	}
	if progress.Trend != TrendStable {
		t.Fatalf("expected stable at threshold, got %s", progress.Trend)
	}

	// 下降超过阈值
	createWeightEntries(t, 4, start, 80.0, 79.2)
	progress, err = svc.WeightProgress(4)
	if err != nil {
		t.Fatalf("WeightProgress returned error: %v", err)
	}
	if progress.Trend != TrendLosing {
		t.Fatalf("expected losing, got %s", progress.Trend)
	}
}

func TestWeightProgressTrendWindowIsRecentEntries(t *testing.T) {
	cleanup := setupProgressTestDB(t)
	defer cleanup()

	svc := NewProgressService(db.DB)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local)

	// 总体下降 4 公斤，但最近 7 条保持平稳
	createWeightEntries(t, 1, start, 84, 83, 82, 81, 80, 80, 80, 80, 80, 80)

	progress, err := svc.WeightProgress(1)
	if err != nil {
		t.Fatalf("WeightProgress returned error: %v", err)
	}

	if progress.Trend != TrendStable {
		t.Fatalf("expected stable trend from recent window, got %s", progress.Trend)
	}
	if progress.TotalChange != -4 {
		t.Fatalf("expected total change -4, got %v", progress.TotalChange)
	}
	if progress.EntriesCount != 10 {
		t.Fatalf("expected 10 entries, got %d", progress.EntriesCount)
	}
	if progress.PercentChange != -4.8 {
		t.Fatalf("expected percent change -4.8, got %v", progress.PercentChange)
	}
}

func TestGoalProgressEvaluation(t *testing.T) {
	cases := []struct {
		goal   string
		trend  string
		status string
	}{
		{db.GoalLoseWeight, TrendLosing, StatusOnTrack},
		{db.GoalLoseWeight, TrendGaining, StatusOffTrack},
		{db.GoalLoseWeight, TrendStable, StatusStable},
		{db.GoalLoseWeight, TrendNoData, StatusStable},
		{db.GoalGainWeight, TrendGaining, StatusOnTrack},
		{db.GoalGainWeight, TrendLosing, StatusOffTrack},
		{db.GoalGainWeight, TrendStable, StatusStable},
		{db.GoalBuildMuscle, TrendGaining, StatusOnTrack},
		{db.GoalBuildMuscle, TrendLosing, StatusOffTrack},
		{db.GoalMaintainWeight, TrendStable, StatusOnTrack},
		{db.GoalMaintainWeight, TrendGaining, StatusAttention},
		{db.GoalMaintainWeight, TrendLosing, StatusAttention},
		{"", TrendStable, StatusOnTrack},
	}

	for _, tc := range cases {
		status, message := evaluateGoal(tc.goal, tc.trend)
		if status != tc.status {
			t.Fatalf("goal %q trend %q: expected %s, got %s", tc.goal, tc.trend, tc.status, status)
		}
		if message == "" {
			t.Fatalf("goal %q trend %q: expected non-empty message", tc.goal, tc.trend)
		}
	}
}

func TestGoalProgressWithoutProfile(t *testing.T) {
	cleanup := setupProgressTestDB(t)
	defer cleanup()

	svc := NewProgressService(db.DB)

	progress, err := svc.GoalProgress(1)
	if err != nil {
		t.Fatalf("GoalProgress returned error: %v", err)
	}

	if progress.Status != StatusNoProfile {
		t.Fatalf("expected no_profile status, got %s", progress.Status)
	}
}

func TestGoalProgressCombinesProfileAndTrend(t *testing.T) {
	cleanup := setupProgressTestDB(t)
	defer cleanup()

	svc := NewProgressService(db.DB)

	profile := db.Profile{UserID: 1, Goal: db.GoalLoseWeight, DailyCalorieTarget: 1800}
	if err := db.DB.Create(&profile).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local)
	createWeightEntries(t, 1, start, 82.0, 81.0)

	progress, err := svc.GoalProgress(1)
	if err != nil {
		t.Fatalf("GoalProgress returned error: %v", err)
	}

	if progress.Status != StatusOnTrack {
		t.Fatalf("expected on_track, got %s", progress.Status)
	}
	if progress.Goal != db.GoalLoseWeight {
		t.Fatalf("unexpected goal: %s", progress.Goal)
	}
	if progress.CalorieTarget != 1800 {
		t.Fatalf("expected calorie target 1800, got %d", progress.CalorieTarget)
	}
	if progress.WeightProgress == nil || progress.WeightProgress.Trend != TrendLosing {
		t.Fatalf("expected losing trend attached, got %+v", progress.WeightProgress)
	}
}

func TestNutritionProgressAverages(t *testing.T) {
	cleanup := setupProgressTestDB(t)
	defer cleanup()

	// 固定"今天"，保证窗口覆盖写入的两天
	today := time.Date(2025, 3, 12, 12, 0, 0, 0, time.Local)
	svc := NewProgressService(db.DB).WithClock(func() time.Time { return today })

	totals := []db.DailyTotal{
		{UserID: 1, Date: today.AddDate(0, 0, -2), TotalCalories: 1800, TotalProtein: 120, TotalCarbs: 180, TotalFats: 60, MealsCount: 3},
		{UserID: 1, Date: today.AddDate(0, 0, -1), TotalCalories: 2200, TotalProtein: 140, TotalCarbs: 220, TotalFats: 70, MealsCount: 4},
	}
	for i := range totals {
		if err := db.DB.Create(&totals[i]).Error; err != nil {
			t.Fatalf("failed to create daily total: %v", err)
		}
	}

	progress, err := svc.NutritionProgress(1, 7)
	if err != nil {
		t.Fatalf("NutritionProgress returned error: %v", err)
	}

	if progress.DaysTracked != 2 {
		t.Fatalf("expected 2 tracked days, got %d", progress.DaysTracked)
	}
	if progress.AverageCalories != 2000 {
		t.Fatalf("expected average 2000 kcal, got %d", progress.AverageCalories)
	}
	if progress.AverageProtein != 130 {
		t.Fatalf("expected average 130g protein, got %v", progress.AverageProtein)
	}
	if len(progress.History) != 2 {
		t.Fatalf("expected 2 history days, got %d", len(progress.History))
	}
}

func TestProgressSummaryAggregates(t *testing.T) {
	cleanup := setupProgressTestDB(t)
	defer cleanup()

	svc := NewProgressService(db.DB)

	summary, err := svc.Summary(1)
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}

	if summary.Weight == nil || summary.Nutrition == nil || summary.Goal == nil {
		t.Fatalf("expected all sections present, got %+v", summary)
	}
	if summary.Weight.Trend != TrendNoData {
		t.Fatalf("expected no_data weight trend, got %s", summary.Weight.Trend)
	}
	if summary.GeneratedAt.IsZero() {
		t.Fatal("expected generatedAt to be set")
	}
}
