package handler

import (
	"time"

	"github.com/MohamadAmiin/diet-app-just-project/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	auth      *service.AuthService
	profiles  *service.ProfileService
	foods     *service.FoodService
	nutrition *service.NutritionService
	logs      *service.MealLogService
	plans     *service.PlanService
	weights   *service.WeightService
	progress  *service.ProgressService
	uploadDir string
	uploadURL string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, jwtSecret string, jwtTTL time.Duration, uploadDir, uploadURL string) *API {
	profiles := service.NewProfileService(gdb)
	nutrition := service.NewNutritionService(gdb)

	return &API{
		db:        gdb,
		auth:      service.NewAuthService(gdb, jwtSecret, jwtTTL),
		profiles:  profiles,
		foods:     service.NewFoodService(gdb),
		nutrition: nutrition,
		logs:      service.NewMealLogService(gdb, nutrition),
		plans:     service.NewPlanService(gdb),
		weights:   service.NewWeightService(gdb, profiles),
		progress:  service.NewProgressService(gdb),
		uploadDir: uploadDir,
		uploadURL: uploadURL,
	}
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}
