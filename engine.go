package social_sdk

import (
	"log"
	"net/http"
	"sync"

	"github.com/cydxin/social-sdk/middleware"
	model "github.com/cydxin/social-sdk/models"
	"github.com/cydxin/social-sdk/service"
	"github.com/gin-gonic/gin"
)

type SocialEngine struct {
	config *Config

	UserService         *service.UserService
	PostService         *service.PostService
	FollowService       *service.FollowService
	MessageService      *service.MessageService
	StoryService        *service.StoryService
	NotificationService *service.NotificationService
	ReactionService     *service.ReactionService
	ModerationService   *service.ModerationService
	AuthService         *service.AuthService
	Visibility          *service.Visibility
	WsServer            *WsServer
}

var (
	Instance *SocialEngine
	once     sync.Once
)

// NewEngine 创建实例
// 使用选项模式传入配置，Option回调
func NewEngine(opts ...Option) *SocialEngine {
	once.Do(func() {
		c := &Config{
			TablePrefix: "sn_", // Default
		}
		for _, opt := range opts {
			opt(c)
		}

		Instance = &SocialEngine{config: c}

		// 初始化 WS
		Instance.WsServer = NewWsServer()
		go Instance.WsServer.Run()

		// 初始化基础 Service，注入 WsNotifier 回调
		baseService := &service.Service{
			DB:          c.DB,
			RDB:         c.RDB,
			TablePrefix: c.TablePrefix,
			WsNotifier:  Instance.WsServer.SendToUser, // 注入 WebSocket 通知函数
			Debug:       c.Service.Debug,
		}
		baseService.Notify = service.NewNotificationService(baseService)

		// 初始化各个 Service
		Instance.NotificationService = baseService.Notify
		Instance.ReactionService = service.NewReactionService(baseService)
		Instance.FollowService = service.NewFollowService(baseService)
		Instance.Visibility = service.NewVisibility(baseService, Instance.FollowService, Instance.ReactionService)
		Instance.PostService = service.NewPostService(baseService, Instance.ReactionService, Instance.Visibility)
		Instance.MessageService = service.NewMessageService(baseService, Instance.ReactionService)
		Instance.StoryService = service.NewStoryService(baseService, Instance.Visibility)
		Instance.UserService = service.NewUserService(baseService, Instance.FollowService, Instance.ReactionService)
		Instance.ModerationService = service.NewModerationService(baseService)
		Instance.AuthService = service.NewAuthService(c.DB, c.RDB)

		// 迁移表
		if err := Instance.AutoMigrate(); err != nil {
			log.Printf("AutoMigrate failed: %v", err)
		}
	})

	return Instance
}

func (c *SocialEngine) AutoMigrate() error {
	db := c.config.DB
	log.Println("AutoMigrate...")
	return db.AutoMigrate(
		&model.User{},
		&model.Post{},
		&model.Comment{},
		&model.Reaction{},
		&model.Follow{},
		&model.Message{},
		&model.Story{},
		&model.Notification{},
		&model.Report{},
		&model.VerificationRequest{},
		&model.AppealRequest{},
		&model.Avatar{},
		&model.Release{},
	)
}

// ServeWS 处理 WebSocket 请求（通知推送通道）
func (c *SocialEngine) ServeWS(w http.ResponseWriter, r *http.Request, userID uint64) {
	c.WsServer.ServeWS(w, r, userID)
}

// HandleWS 返回 WebSocket 的Handler
func (c *SocialEngine) HandleWS(userID uint64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.WsServer.ServeWS(w, r, userID)
	}
}

// GinAuthMiddleware 返回配置好的 Gin 鉴权中间件
//
// 使用示例:
//
//	engine := social_sdk.NewEngine(...)
//	r := gin.Default()
//	r.Use(engine.GinAuthMiddleware(nil)) // 使用默认配置
func (c *SocialEngine) GinAuthMiddleware(opt *middleware.AuthOptions) gin.HandlerFunc {
	return middleware.GinAuthMiddleware(c.AuthService, opt)
}

// GinAdminMiddleware 管理员门禁，需在 GinAuthMiddleware 之后使用。
func (c *SocialEngine) GinAdminMiddleware() gin.HandlerFunc {
	return middleware.GinAdminMiddleware(c.AuthService)
}
