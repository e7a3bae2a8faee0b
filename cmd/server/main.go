package main

import (
	"log"
	"time"

	"github.com/MohamadAmiin/diet-app-just-project/internal/config"
	"github.com/MohamadAmiin/diet-app-just-project/internal/db"
	"github.com/MohamadAmiin/diet-app-just-project/internal/handler"
	"github.com/MohamadAmiin/diet-app-just-project/internal/router"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 按配置创建管理员账号，未配置时跳过
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := db.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("failed to ensure admin account: %v", err)
		}
	}

	// 设置并运行 Gin 服务器
	api := handler.NewAPI(
		db.DB,
		cfg.JWTSecret,
		time.Duration(cfg.JWTTTLHours)*time.Hour,
		cfg.UploadDir,
		cfg.UploadURLPath,
	)
	r := router.Setup(api, &cfg)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
