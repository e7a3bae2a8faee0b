package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/MohamadAmiin/diet-app-just-project/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPlanTestDB(t *testing.T) func() {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.Food{}, &db.DietPlan{}, &db.PlanItem{}); err != nil {
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

func TestPlanTotalsScaleWithQuantity(t *testing.T) {
	cleanup := setupPlanTestDB(t)
	defer cleanup()

	svc := NewPlanService(db.DB)
	food := createTestFood(t, "测试食物", 100, 10, 10, 5)

	plan, err := svc.Create(1, PlanInput{
		Name: "减脂餐",
		Items: []PlanItemInput{
			{FoodID: food.ID, Quantity: 1, MealType: db.MealBreakfast},
			{FoodID: food.ID, Quantity: 2, MealType: db.MealLunch},
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if plan.TotalCalories != 300 {
		t.Fatalf("expected 300 calories, got %d", plan.TotalCalories)
	}
	if plan.TotalProtein != 30 || plan.TotalCarbs != 30 || plan.TotalFats != 15 {
		t.Fatalf("unexpected totals: %+v", plan)
	}

	// 移除两份的那一条后只剩一份
	var removed *db.PlanItem
	for i := range plan.Items {
		if plan.Items[i].Quantity == 2 {
			removed = &plan.Items[i]
		}
	}
	if removed == nil {
		t.Fatal("expected to find quantity-2 item")
	}

	plan, err = svc.RemoveItem(plan.ID, removed.ID, 1, false)
	if err != nil {
		t.Fatalf("RemoveItem returned error: %v", err)
	}

	if plan.TotalCalories != 100 || plan.TotalProtein != 10 || plan.TotalCarbs != 10 || plan.TotalFats != 5 {
		t.Fatalf("unexpected totals after removal: %+v", plan)
	}
}

func TestPlanCreateDefaultsName(t *testing.T) {
	cleanup := setupPlanTestDB(t)
	defer cleanup()

	svc := NewPlanService(db.DB)

	plan, err := svc.Create(1, PlanInput{Name: "   "})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if plan.Name != "我的饮食计划" {
		t.Fatalf("expected default name, got %q", plan.Name)
	}
}

func TestPlanTotalsSkipDeletedFoods(t *testing.T) {
	cleanup := setupPlanTestDB(t)
	defer cleanup()

	svc := NewPlanService(db.DB)
	keep := createTestFood(t, "保留食物", 200, 20, 10, 8)
	gone := createTestFood(t, "下架食物", 500, 5, 50, 20)

	plan, err := svc.Create(1, PlanInput{
		Name: "混合计划",
		Items: []PlanItemInput{
			{FoodID: keep.ID, Quantity: 1, MealType: db.MealLunch},
			{FoodID: gone.ID, Quantity: 1, MealType: db.MealDinner},
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if plan.TotalCalories != 700 {
		t.Fatalf("expected 700 calories, got %d", plan.TotalCalories)
	}

	// 删掉其中一个食物后重算，只统计仍然存在的
	if err := db.DB.Delete(&db.Food{}, gone.ID).Error; err != nil {
		t.Fatalf("failed to delete food: %v", err)
	}

	plan, err = svc.Update(plan.ID, 1, false, PlanUpdate{})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if plan.TotalCalories != 200 {
		t.Fatalf("expected 200 calories after food removal, got %d", plan.TotalCalories)
	}
}

func TestPlanActivateExclusive(t *testing.T) {
	cleanup := setupPlanTestDB(t)
	defer cleanup()

	svc := NewPlanService(db.DB)

	first, err := svc.Create(1, PlanInput{Name: "计划一"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	second, err := svc.Create(1, PlanInput{Name: "计划二"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.Activate(first.ID, 1); err != nil {
		t.Fatalf("Activate returned error: %v", err)
	}
	if _, err := svc.Activate(second.ID, 1); err != nil {
		t.Fatalf("Activate returned error: %v", err)
	}

	active, err := svc.Active(1)
	if err != nil {
		t.Fatalf("Active returned error: %v", err)
	}
	if active.ID != second.ID {
		t.Fatalf("expected plan %d active, got %d", second.ID, active.ID)
	}

	// 任意时刻至多一个启用计划
	var count int64
	db.DB.Model(&db.DietPlan{}).Where("user_id = ? AND is_active = ?", 1, true).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly 1 active plan, got %d", count)
	}

	// 不能启用他人的计划
	if _, err := svc.Activate(first.ID, 2); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestPlanAddItemRequiresFood(t *testing.T) {
	cleanup := setupPlanTestDB(t)
	defer cleanup()

	svc := NewPlanService(db.DB)

	plan, err := svc.Create(1, PlanInput{Name: "空计划"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.AddItem(plan.ID, 1, false, PlanItemInput{FoodID: 999, MealType: db.MealLunch}); !errors.Is(err, ErrFoodNotFound) {
		t.Fatalf("expected ErrFoodNotFound, got %v", err)
	}

	food := createTestFood(t, "加餐", 150, 10, 15, 5)
	plan, err = svc.AddItem(plan.ID, 1, false, PlanItemInput{FoodID: food.ID, Quantity: 2, MealType: db.MealSnack})
	if err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	if plan.TotalCalories != 300 {
		t.Fatalf("expected 300 calories, got %d", plan.TotalCalories)
	}
}

func TestPlanNoActivePlan(t *testing.T) {
	cleanup := setupPlanTestDB(t)
	defer cleanup()

	svc := NewPlanService(db.DB)

	if _, err := svc.Active(1); !errors.Is(err, ErrNoActivePlan) {
		t.Fatalf("expected ErrNoActivePlan, got %v", err)
	}
}

func TestRenderDescription(t *testing.T) {
	html := RenderDescription("# 高蛋白周\n\n每天 **150g** 蛋白质")
	if !strings.Contains(html, "<strong>150g</strong>") {
		t.Fatalf("expected bold rendering, got %q", html)
	}

	// 脚本标签必须被清理
	html = RenderDescription("hello <script>alert(1)</script>")
	if strings.Contains(html, "<script>") {
		t.Fatalf("expected script stripped, got %q", html)
	}

	if RenderDescription("   ") != "" {
		t.Fatal("expected empty output for blank input")
	}
}
