package routes

import (
	"time"

	_ "iaccess-http-service/docs"
	"iaccess-http-service/internal/app/controllers"
	"iaccess-http-service/internal/app/middleware"
	"iaccess-http-service/internal/domain/services"
	"iaccess-http-service/internal/domain/services/container"
	"iaccess-http-service/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// 初始化 Gin
	r := gin.Default()

	// 设置正确的Content-Type，确保UTF-8编码
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		c.Next()
	})

	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg)
	// 初始化中间件
	middleware.InitAuthMiddleware(cfg)
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册路由
	registerRoutes(r, serviceContainer, cfg)
	return r
}

// newCounterStore 按配置选择限流计数器存储。
// Redis存储带进程内备用计数，Redis故障期间限流不失效
func newCounterStore(c *container.ServiceContainer, cfg *config.Config) middleware.CounterStore {
	window := time.Duration(cfg.RateLimitWindowMinutes) * time.Minute
	if cfg.RateLimitStore == "redis" {
		redisService := c.GetService("redis").(services.InterfaceRedisService)
		return middleware.NewFallbackCounterStore(
			middleware.NewRedisCounterStore(redisService),
			middleware.NewMemoryCounterStore(window),
		)
	}
	return middleware.NewMemoryCounterStore(window)
}

// registerRoutes 配置所有API路由
func registerRoutes(
	r *gin.Engine,
	c *container.ServiceContainer,
	cfg *config.Config,
) {
	limiterCfg := middleware.NewRateLimiterConfig(cfg, newCounterStore(c, cfg))

	// API 路由根路径
	api := r.Group("/api")
	// 注册公共路由
	registerPublicRoutes(api, c, limiterCfg)
	// 注册需要认证的路由
	registerAuthenticatedRoutes(api, c, limiterCfg)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	c *container.ServiceContainer,
	limiterCfg middleware.RateLimiterConfig,
) {
	// 健康检查路由
	healthController := controllers.NewHealthCheckController()
	api.GET("/ping", healthController.Ping)
	api.GET("/health", healthController.Ping) // 兼容Docker健康检查的路由

	// 门禁校验路由。设备侧调用无法携带令牌，保持公开，
	// 由按 客户端IP+目标设备 计数的限流中间件保护
	api.POST("/intercoms/:id/access/verify",
		middleware.VerifyRateLimiter(limiterCfg),
		controllers.HandleAccessFunc(c, "verify"))
}

// registerAuthenticatedRoutes 注册需要认证的路由
func registerAuthenticatedRoutes(
	api *gin.RouterGroup,
	c *container.ServiceContainer,
	limiterCfg middleware.RateLimiterConfig,
) {
	// 门禁码路由：租户与物业人员均可访问，服务层再做楼号归属检查
	codeGroup := api.Group("/access-codes")
	codeGroup.Use(middleware.AuthenticateUser())
	codeGroup.POST("", controllers.HandleAccessCodeFunc(c, "createAccessCode"))
	codeGroup.GET("", controllers.HandleAccessCodeFunc(c, "getAccessCodes"))
	codeGroup.PATCH("/:id", controllers.HandleAccessCodeFunc(c, "updateAccessCode"))
	codeGroup.PATCH("/:id/deactivate", controllers.HandleAccessCodeFunc(c, "deactivateAccessCode"))

	// PIN签发路由
	pinGroup := api.Group("/intercoms/:id/pin")
	pinGroup.Use(middleware.EndpointRateLimiter(limiterCfg))
	pinGroup.POST("/master", middleware.AuthenticateStaff(), controllers.HandlePinFunc(c, "setMasterPin"))
	pinGroup.POST("/user/:userId", middleware.AuthenticateStaff(), controllers.HandlePinFunc(c, "setUserPin"))
	pinGroup.POST("/me", middleware.AuthenticateUser(), controllers.HandlePinFunc(c, "setMyPin"))
	pinGroup.POST("/temporary", middleware.AuthenticateStaff(), controllers.HandlePinFunc(c, "createTemporaryPin"))

	// 审计查询路由：物业人员专用，结果短暂缓存
	auditGroup := api.Group("/intercoms/:id/access")
	auditGroup.Use(middleware.AuthenticateStaff())
	auditGroup.GET("/logs",
		middleware.AuditQueryCache(time.Minute),
		controllers.HandleAccessFunc(c, "getAccessLogs"))
	auditGroup.GET("/temporary-usages",
		middleware.AuditQueryCache(time.Minute),
		controllers.HandleAccessFunc(c, "getTemporaryPinUsages"))
}
