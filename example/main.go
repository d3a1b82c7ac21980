package main

import (
	"log"
	"strconv"

	social_sdk "github.com/cydxin/social-sdk"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	// 1. 初始化数据库连接
	dsn := "root:password@tcp(127.0.0.1:3306)/social_db?charset=utf8mb4&parseTime=True&loc=Local"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("数据库连接失败:", err)
	}

	// Redis（Token 认证必需）
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})

	// 2. 初始化 Social Engine（单例模式，全局只需调用一次）
	engine := social_sdk.NewEngine(
		social_sdk.WithDB(db),
		social_sdk.WithRDB(rdb),
		social_sdk.WithTablePrefix("sn_"), // 自定义表前缀
	)

	// 3. 创建 Gin 路由
	r := gin.Default()

	// 设置 CORS（如果需要）
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// 注册 Swagger UI
	social_sdk.RegisterSwagger(r, "/swagger/*any")

	// 4. WebSocket 通知推送通道
	// 客户端连接：ws://localhost:8080/ws?user_id=1001
	r.GET("/ws", func(c *gin.Context) {
		userIDStr := c.Query("user_id")
		if userIDStr == "" {
			c.JSON(400, gin.H{"error": "缺少 user_id 参数"})
			return
		}
		userID, err := strconv.ParseUint(userIDStr, 10, 64)
		if err != nil {
			c.JSON(400, gin.H{"error": "user_id 格式错误"})
			return
		}
		engine.ServeWS(c.Writer, c.Request, userID)
	})

	// 5. API 路由组（统一鉴权）
	api := r.Group("/api/v1")
	api.Use(engine.GinAuthMiddleware(nil))
	engine.RegisterRoutes(api)

	// 管理员路由组
	admin := api.Group("/admin")
	admin.Use(engine.GinAdminMiddleware())
	engine.RegisterAdminRoutes(admin)

	log.Println("listening on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
