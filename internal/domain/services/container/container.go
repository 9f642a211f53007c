package container

import (
	"log"
	"sync"

	"iaccess-http-service/internal/domain/services"
	"iaccess-http-service/internal/infrastructure/config"

	"gorm.io/gorm"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config

	// 基础服务
	jwtService   services.InterfaceJWTService
	redisService services.InterfaceRedisService

	// 设备指令下发服务
	deviceNotifyService services.InterfaceDeviceNotifyService

	// 业务服务
	credentialService   services.InterfaceCredentialService
	accessCodeService   services.InterfaceAccessCodeService
	verificationService services.InterfaceVerificationService
	accessLogService    services.InterfaceAccessLogService
	tenancyService      services.InterfaceTenancyService

	// 人脸比对器由外部注入，默认不配置
	faceComparator services.FaceComparator

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config)
	c.redisService = services.NewRedisService(c.config)

	// 测试Redis连接，失败时降级为进程内限流计数
	if err := c.redisService.Ping(); err != nil {
		log.Printf("Redis连接测试失败: %v，限流计数退回进程内存储", err)
	}

	// 初始化设备指令下发服务
	c.deviceNotifyService = services.NewDeviceNotifyService(c.config)
	if c.config.MQTTEnabled {
		if err := c.deviceNotifyService.Connect(); err != nil {
			log.Printf("MQTT服务连接失败: %v", err)
		}
	}

	// 初始化业务服务
	c.tenancyService = services.NewTenancyService(c.db)
	c.credentialService = services.NewCredentialService(c.db, c.config)
	c.accessCodeService = services.NewAccessCodeService(c.db, c.config, c.tenancyService)
	c.verificationService = services.NewVerificationService(c.db, c.config, c.faceComparator)
	c.accessLogService = services.NewAccessLogService(c.db, c.config)
}

// SetFaceComparator 注入外部人脸比对器并重建校验引擎
func (c *ServiceContainer) SetFaceComparator(comparator services.FaceComparator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.faceComparator = comparator
	c.verificationService = services.NewVerificationService(c.db, c.config, comparator)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "device_notify":
		return c.deviceNotifyService
	case "credential":
		return c.credentialService
	case "access_code":
		return c.accessCodeService
	case "verification":
		return c.verificationService
	case "access_log":
		return c.accessLogService
	case "tenancy":
		return c.tenancyService
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}
