package service

import (
	"errors"
	"testing"

	"github.com/MohamadAmiin/diet-app-just-project/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupProfileTestDB(t *testing.T) func() {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.Profile{}); err != nil {
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

func TestProfilePartialUpdate(t *testing.T) {
	cleanup := setupProfileTestDB(t)
	defer cleanup()

	svc := NewProfileService(db.DB)

	if err := db.DB.Create(&db.Profile{UserID: 1, Age: 30, Height: 175, Weight: 70}).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	// 只改体重，其余字段不动
	weight := 68.5
	profile, err := svc.Update(1, ProfileUpdate{Weight: &weight})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if profile.Weight != 68.5 {
		t.Fatalf("expected weight 68.5, got %v", profile.Weight)
	}
	if profile.Age != 30 || profile.Height != 175 {
		t.Fatalf("untouched fields changed: %+v", profile)
	}

	goal := db.GoalLoseWeight
	target := 1800
	profile, err = svc.Update(1, ProfileUpdate{Goal: &goal, DailyCalorieTarget: &target})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if profile.Goal != db.GoalLoseWeight || profile.DailyCalorieTarget != 1800 {
		t.Fatalf("unexpected update result: %+v", profile)
	}
}

func TestProfileUpdateRangeChecks(t *testing.T) {
	cleanup := setupProfileTestDB(t)
	defer cleanup()

	svc := NewProfileService(db.DB)

	if err := db.DB.Create(&db.Profile{UserID: 1}).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	badAge := 151
	if _, err := svc.Update(1, ProfileUpdate{Age: &badAge}); !errors.Is(err, ErrProfileInvalid) {
		t.Fatalf("expected ErrProfileInvalid for age, got %v", err)
	}
	badHeight := 30.0
	if _, err := svc.Update(1, ProfileUpdate{Height: &badHeight}); !errors.Is(err, ErrProfileInvalid) {
		t.Fatalf("expected ErrProfileInvalid for height, got %v", err)
	}
	badWeight := 600.0
	if _, err := svc.Update(1, ProfileUpdate{Weight: &badWeight}); !errors.Is(err, ErrProfileInvalid) {
		t.Fatalf("expected ErrProfileInvalid for weight, got %v", err)
	}
	badGoal := "get_swole"
	if _, err := svc.Update(1, ProfileUpdate{Goal: &badGoal}); !errors.Is(err, ErrProfileInvalid) {
		t.Fatalf("expected ErrProfileInvalid for goal, got %v", err)
	}
	badTarget := -1
	if _, err := svc.Update(1, ProfileUpdate{DailyCalorieTarget: &badTarget}); !errors.Is(err, ErrProfileInvalid) {
		t.Fatalf("expected ErrProfileInvalid for calorie target, got %v", err)
	}
}

func TestProfileGetMissing(t *testing.T) {
	cleanup := setupProfileTestDB(t)
	defer cleanup()

	svc := NewProfileService(db.DB)

	if _, err := svc.Get(42); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestProfileSetWeightSilentWhenMissing(t *testing.T) {
	cleanup := setupProfileTestDB(t)
	defer cleanup()

	svc := NewProfileService(db.DB)

	// 档案不存在时静默忽略
	if err := svc.SetWeight(42, 70); err != nil {
		t.Fatalf("SetWeight returned error: %v", err)
	}
}
