package main

import (
	"fmt"
	"log"
	"time"

	"github.com/MohamadAmiin/diet-app-just-project/internal/config"
	"github.com/MohamadAmiin/diet-app-just-project/internal/db"
	"github.com/MohamadAmiin/diet-app-just-project/internal/service"
	"golang.org/x/crypto/bcrypt"
)

// 示例数据生成器
func main() {
	// 初始化数据库
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成示例数据...")

	// 创建管理员和演示用户
	createUsers()

	// 填充食物库
	createFoods()

	// 为演示用户生成用餐和体重记录
	createDemoRecords()

	fmt.Println("示例数据生成完成！")
	fmt.Println("管理员: admin@diet.com (密码: admin123)")
	fmt.Println("演示用户: demo@diet.com (密码: demo123)")
}

// 创建管理员和演示用户
func createUsers() {
	if err := db.EnsureAdmin("admin@diet.com", "admin123"); err != nil {
		log.Printf("创建管理员失败: %v", err)
	}

	var count int64
	db.DB.Model(&db.User{}).Where("email = ?", "demo@diet.com").Count(&count)
	if count > 0 {
		fmt.Println("演示用户已存在，跳过创建")
		return
	}

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)
	demo := db.User{
		Email:    "demo@diet.com",
		Password: string(hashedPassword),
		Role:     db.RoleUser,
	}
	if err := db.DB.Create(&demo).Error; err != nil {
		log.Printf("创建演示用户失败: %v", err)
		return
	}

	profile := db.Profile{
		UserID:             demo.ID,
		Age:                30,
		Height:             175,
		Weight:             70,
		Goal:               db.GoalMaintainWeight,
		DailyCalorieTarget: 2000,
	}
	if err := db.DB.Create(&profile).Error; err != nil {
		log.Printf("创建演示档案失败: %v", err)
	}

	fmt.Println("✅ 用户创建完成")
}

// 填充食物库
func createFoods() {
	var count int64
	db.DB.Model(&db.Food{}).Count(&count)
	if count > 0 {
		fmt.Println("食物库已有数据，跳过填充")
		return
	}

	foods := []db.Food{
		// 蛋白质来源
		{Name: "Chicken Breast (grilled)", Calories: 165, Protein: 31, Carbs: 0, Fats: 3.6, ServingSize: "100g", Category: "protein"},
		{Name: "Salmon (baked)", Calories: 208, Protein: 20, Carbs: 0, Fats: 13, ServingSize: "100g", Category: "protein"},
		{Name: "Eggs (boiled)", Calories: 155, Protein: 13, Carbs: 1.1, Fats: 11, ServingSize: "2 eggs", Category: "protein"},
		{Name: "Ground Beef (lean)", Calories: 250, Protein: 26, Carbs: 0, Fats: 15, ServingSize: "100g", Category: "protein"},
		{Name: "Tuna (canned)", Calories: 116, Protein: 26, Carbs: 0, Fats: 1, ServingSize: "100g", Category: "protein"},
		{Name: "Greek Yogurt", Calories: 100, Protein: 17, Carbs: 6, Fats: 0.7, ServingSize: "170g", Category: "protein"},

		// 碳水来源
		{Name: "Brown Rice (cooked)", Calories: 112, Protein: 2.6, Carbs: 24, Fats: 0.9, ServingSize: "100g", Category: "carbs"},
		{Name: "White Rice (cooked)", Calories: 130, Protein: 2.7, Carbs: 28, Fats: 0.3, ServingSize: "100g", Category: "carbs"},
		{Name: "Oatmeal (cooked)", Calories: 71, Protein: 2.5, Carbs: 12, Fats: 1.5, ServingSize: "100g", Category: "carbs"},
		{Name: "Sweet Potato (baked)", Calories: 103, Protein: 2.3, Carbs: 24, Fats: 0.1, ServingSize: "100g", Category: "carbs"},
		{Name: "Whole Wheat Bread", Calories: 247, Protein: 13, Carbs: 41, Fats: 3.4, ServingSize: "2 slices", Category: "carbs"},
		{Name: "Pasta (cooked)", Calories: 131, Protein: 5, Carbs: 25, Fats: 1.1, ServingSize: "100g", Category: "carbs"},

		// 蔬菜
		{Name: "Broccoli (steamed)", Calories: 35, Protein: 2.4, Carbs: 7, Fats: 0.4, ServingSize: "100g", Category: "vegetables"},
		{Name: "Spinach (raw)", Calories: 23, Protein: 2.9, Carbs: 3.6, Fats: 0.4, ServingSize: "100g", Category: "vegetables"},
		{Name: "Carrots (raw)", Calories: 41, Protein: 0.9, Carbs: 10, Fats: 0.2, ServingSize: "100g", Category: "vegetables"},
		{Name: "Bell Peppers", Calories: 31, Protein: 1, Carbs: 6, Fats: 0.3, ServingSize: "100g", Category: "vegetables"},
		{Name: "Tomatoes", Calories: 18, Protein: 0.9, Carbs: 3.9, Fats: 0.2, ServingSize: "100g", Category: "vegetables"},
		{Name: "Cucumber", Calories: 16, Protein: 0.7, Carbs: 3.6, Fats: 0.1, ServingSize: "100g", Category: "vegetables"},

		// 水果
		{Name: "Banana", Calories: 89, Protein: 1.1, Carbs: 23, Fats: 0.3, ServingSize: "1 medium", Category: "fruits"},
		{Name: "Apple", Calories: 52, Protein: 0.3, Carbs: 14, Fats: 0.2, ServingSize: "1 medium", Category: "fruits"},
		{Name: "Orange", Calories: 47, Protein: 0.9, Carbs: 12, Fats: 0.1, ServingSize: "1 medium", Category: "fruits"},
		{Name: "Strawberries", Calories: 32, Protein: 0.7, Carbs: 7.7, Fats: 0.3, ServingSize: "100g", Category: "fruits"},
		{Name: "Blueberries", Calories: 57, Protein: 0.7, Carbs: 14, Fats: 0.3, ServingSize: "100g", Category: "fruits"},
		{Name: "Grapes", Calories: 69, Protein: 0.7, Carbs: 18, Fats: 0.2, ServingSize: "100g", Category: "fruits"},

		// 乳制品
		{Name: "Milk (whole)", Calories: 61, Protein: 3.2, Carbs: 4.8, Fats: 3.3, ServingSize: "100ml", Category: "dairy"},
		{Name: "Milk (skim)", Calories: 34, Protein: 3.4, Carbs: 5, Fats: 0.1, ServingSize: "100ml", Category: "dairy"},
		{Name: "Cheese (cheddar)", Calories: 403, Protein: 25, Carbs: 1.3, Fats: 33, ServingSize: "100g", Category: "dairy"},
		{Name: "Cottage Cheese", Calories: 98, Protein: 11, Carbs: 3.4, Fats: 4.3, ServingSize: "100g", Category: "dairy"},

		// 脂肪来源
		{Name: "Almonds", Calories: 579, Protein: 21, Carbs: 22, Fats: 50, ServingSize: "100g", Category: "fats"},
		{Name: "Peanut Butter", Calories: 588, Protein: 25, Carbs: 20, Fats: 50, ServingSize: "100g", Category: "fats"},
		{Name: "Avocado", Calories: 160, Protein: 2, Carbs: 9, Fats: 15, ServingSize: "1/2 avocado", Category: "fats"},
		{Name: "Olive Oil", Calories: 884, Protein: 0, Carbs: 0, Fats: 100, ServingSize: "100ml", Category: "fats"},

		// 零食
		{Name: "Protein Bar", Calories: 200, Protein: 20, Carbs: 22, Fats: 6, ServingSize: "1 bar", Category: "snacks"},
		{Name: "Rice Cakes", Calories: 35, Protein: 0.7, Carbs: 7.3, Fats: 0.3, ServingSize: "1 cake", Category: "snacks"},
		{Name: "Dark Chocolate", Calories: 546, Protein: 5, Carbs: 60, Fats: 31, ServingSize: "100g", Category: "snacks"},

		// 饮品
		{Name: "Orange Juice", Calories: 45, Protein: 0.7, Carbs: 10, Fats: 0.2, ServingSize: "100ml", Category: "beverages"},
		{Name: "Coffee (black)", Calories: 2, Protein: 0.3, Carbs: 0, Fats: 0, ServingSize: "240ml", Category: "beverages"},
		{Name: "Green Tea", Calories: 0, Protein: 0, Carbs: 0, Fats: 0, ServingSize: "240ml", Category: "beverages"},
		{Name: "Protein Shake", Calories: 120, Protein: 24, Carbs: 3, Fats: 1, ServingSize: "1 scoop + water", Category: "beverages"},
	}

	for i := range foods {
		if err := db.DB.Create(&foods[i]).Error; err != nil {
			log.Printf("创建食物失败: %v", err)
		}
	}

	fmt.Printf("✅ 食物库填充完成，共 %d 条\n", len(foods))
}

// 为演示用户生成最近一周的用餐和体重记录
func createDemoRecords() {
	var demo db.User
	if err := db.DB.Where("email = ?", "demo@diet.com").First(&demo).Error; err != nil {
		log.Printf("未找到演示用户: %v", err)
		return
	}

	var count int64
	db.DB.Model(&db.MealLog{}).Where("user_id = ?", demo.ID).Count(&count)
	if count > 0 {
		fmt.Println("演示记录已存在，跳过创建")
		return
	}

	var breakfast, lunch, dinner db.Food
	db.DB.Where("name = ?", "Oatmeal (cooked)").First(&breakfast)
	db.DB.Where("name = ?", "Chicken Breast (grilled)").First(&lunch)
	db.DB.Where("name = ?", "Salmon (baked)").First(&dinner)
	if breakfast.ID == 0 || lunch.ID == 0 || dinner.ID == 0 {
		log.Println("食物库数据不全，跳过演示记录")
		return
	}

	meals := []struct {
		food     db.Food
		mealType string
		quantity float64
	}{
		{breakfast, db.MealBreakfast, 2},
		{lunch, db.MealLunch, 1.5},
		{dinner, db.MealDinner, 1},
	}

	nutrition := service.NewNutritionService(db.DB)
	logs := service.NewMealLogService(db.DB, nutrition)

	for dayOffset := 6; dayOffset >= 0; dayOffset-- {
		date := time.Now().AddDate(0, 0, -dayOffset)

		for _, meal := range meals {
			_, err := logs.Create(demo.ID, service.MealLogInput{
				FoodID:   meal.food.ID,
				Quantity: meal.quantity,
				MealType: meal.mealType,
				Date:     date,
			})
			if err != nil {
				log.Printf("创建用餐记录失败: %v", err)
			}
		}

		weight := db.WeightEntry{
			UserID: demo.ID,
			Value:  70 - 0.1*float64(6-dayOffset),
			Date:   date,
		}
		if err := db.DB.Create(&weight).Error; err != nil {
			log.Printf("创建体重记录失败: %v", err)
		}
	}

	fmt.Println("✅ 演示记录创建完成")
}
