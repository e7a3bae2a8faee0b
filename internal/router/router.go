package router

import (
	"github.com/MohamadAmiin/diet-app-just-project/internal/config"
	"github.com/MohamadAmiin/diet-app-just-project/internal/handler"
	"github.com/gin-gonic/gin"
)

// Setup 配置 Gin 引擎和全部路由
func Setup(api *handler.API, cfg *config.AppConfig) *gin.Engine {
	r := gin.Default()

	// 静态文件服务，上传的图片从这里访问
	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 认证相关
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", api.Register)
		auth.POST("/login", api.Login)

		me := auth.Group("")
		me.Use(api.AuthRequired())
		{
			me.GET("/me", api.Me)
			me.PUT("/change-password", api.ChangePassword)
			me.GET("/profile", api.GetProfile)
			me.PUT("/profile", api.UpdateProfile)
			me.GET("/users", api.AdminRequired(), api.ListUsers)
		}
	}

	// 食物库，读公开给登录用户，写仅限管理员
	foods := r.Group("/api/foods")
	foods.Use(api.AuthRequired())
	{
		foods.GET("", api.ListFoods)
		foods.GET("/:id", api.GetFood)

		admin := foods.Group("")
		admin.Use(api.AdminRequired())
		{
			admin.POST("", api.CreateFood)
			admin.PUT("/:id", api.UpdateFood)
			admin.DELETE("/:id", api.DeleteFood)
		}
	}

	// 用餐记录与每日总量
	logs := r.Group("/api/logs")
	logs.Use(api.AuthRequired())
	{
		logs.POST("", api.CreateLog)
		logs.GET("", api.GetAllLogs)
		logs.GET("/today", api.GetTodayLogs)
		logs.GET("/date/:date", api.GetLogsByDate)
		logs.GET("/range", api.GetLogsRange)
		logs.PUT("/:id", api.UpdateLog)
		logs.DELETE("/:id", api.DeleteLog)

		logs.GET("/totals/today", api.GetTodayTotals)
		logs.GET("/totals/date/:date", api.GetTotalsByDate)
		logs.GET("/totals/range", api.GetTotalsRange)
		logs.GET("/totals/weekly", api.GetWeeklySummary)
	}

	// 饮食计划
	plans := r.Group("/api/plans")
	plans.Use(api.AuthRequired())
	{
		plans.POST("", api.CreatePlan)
		plans.GET("", api.ListPlans)
		plans.GET("/active", api.GetActivePlan)
		plans.GET("/calculate-calories", api.CalculateCalories)
		plans.GET("/:id", api.GetPlan)
		plans.PUT("/:id", api.UpdatePlan)
		plans.DELETE("/:id", api.DeletePlan)
		plans.PUT("/:id/activate", api.ActivatePlan)
		plans.POST("/:id/items", api.AddPlanItem)
		plans.DELETE("/:id/items/:itemId", api.RemovePlanItem)
	}

	// 体重与进展
	progress := r.Group("/api/progress")
	progress.Use(api.AuthRequired())
	{
		progress.POST("/weight", api.LogWeight)
		progress.GET("/weight", api.GetWeightHistory)
		progress.GET("/weight/range", api.GetWeightRange)
		progress.GET("/weight/latest", api.GetLatestWeight)
		progress.PUT("/weight/:id", api.UpdateWeight)
		progress.DELETE("/weight/:id", api.DeleteWeight)

		progress.GET("/weight-progress", api.GetWeightProgress)
		progress.GET("/nutrition", api.GetNutritionProgress)
		progress.GET("/goal", api.GetGoalProgress)
		progress.GET("/summary", api.GetProgressSummary)
	}

	// 图片上传
	uploads := r.Group("/api/uploads")
	uploads.Use(api.AuthRequired())
	{
		uploads.POST("/image", api.UploadImage)
	}

	return r
}
