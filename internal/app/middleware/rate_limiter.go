package middleware

import (
	"sync"
	"time"

	"iaccess-http-service/internal/error/code"
	"iaccess-http-service/internal/error/response"
	"iaccess-http-service/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

// CounterStore 限流计数器存储。进程内实现为默认，
// 多实例部署可换用Redis实现共享同一份视图
type CounterStore interface {
	// Incr 在滑动窗口内自增并返回当前计数，窗口过期后重新计数
	Incr(key string, window time.Duration) (int, error)
}

// 单个键的计数器，窗口起点与计数在各自的锁下更新，
// 避免不相关设备的流量串行在一把全局锁上
type windowCounter struct {
	mu          sync.Mutex
	count       int
	windowStart time.Time
}

// MemoryCounterStore 进程内的滑动窗口计数器表
type MemoryCounterStore struct {
	mu       sync.RWMutex
	counters map[string]*windowCounter
	window   time.Duration
	stopCh   chan struct{}
}

// NewMemoryCounterStore 创建进程内计数器存储并启动后台清理任务
func NewMemoryCounterStore(window time.Duration) *MemoryCounterStore {
	store := &MemoryCounterStore{
		counters: make(map[string]*windowCounter),
		window:   window,
		stopCh:   make(chan struct{}),
	}

	// 定期清理窗口起点早于两倍窗口长度的键，限制内存增长
	go func() {
		ticker := time.NewTicker(window)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				store.cleanExpired()
			case <-store.stopCh:
				return
			}
		}
	}()

	return store
}

// Incr 自增窗口计数；窗口过期后首个请求重置窗口起点与计数
func (s *MemoryCounterStore) Incr(key string, window time.Duration) (int, error) {
	s.mu.RLock()
	counter, exists := s.counters[key]
	s.mu.RUnlock()

	if !exists {
		s.mu.Lock()
		counter, exists = s.counters[key]
		if !exists {
			counter = &windowCounter{}
			s.counters[key] = counter
		}
		s.mu.Unlock()
	}

	counter.mu.Lock()
	defer counter.mu.Unlock()

	now := time.Now()
	if counter.windowStart.IsZero() || now.Sub(counter.windowStart) >= window {
		counter.windowStart = now
		counter.count = 0
	}
	counter.count++
	return counter.count, nil
}

// Stop 停止后台清理任务
func (s *MemoryCounterStore) Stop() {
	close(s.stopCh)
}

// cleanExpired 清理过期的计数器
func (s *MemoryCounterStore) cleanExpired() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, counter := range s.counters {
		counter.mu.Lock()
		expired := !counter.windowStart.IsZero() && now.Sub(counter.windowStart) >= 2*s.window
		counter.mu.Unlock()
		if expired {
			delete(s.counters, key)
		}
	}
}

// RateLimiterConfig 限流器配置
type RateLimiterConfig struct {
	Window      time.Duration             // 滑动窗口长度
	MaxRequests int                       // 窗口内允许的最大请求数
	BackoffStep time.Duration             // 软退避步长
	KeyFunc     func(*gin.Context) string // 限流键生成函数
	Store       CounterStore              // 计数器存储
}

// DefaultRateLimiterConfig 默认限流器配置：15分钟窗口，5个请求
var DefaultRateLimiterConfig = RateLimiterConfig{
	Window:      15 * time.Minute,
	MaxRequests: 5,
	BackoffStep: 500 * time.Millisecond,
}

// RateLimiter 创建限流中间件。
// 计数超过阈值一半后，每个后续请求按超出量附加延迟（渐进摩擦）；
// 超过阈值后直接拒绝，请求不会到达校验引擎，也不产生审计记录
func RateLimiter(cfg RateLimiterConfig) gin.HandlerFunc {
	// 确保配置有效
	if cfg.Window <= 0 {
		cfg.Window = DefaultRateLimiterConfig.Window
	}
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = DefaultRateLimiterConfig.MaxRequests
	}
	if cfg.BackoffStep < 0 {
		cfg.BackoffStep = DefaultRateLimiterConfig.BackoffStep
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string {
			return c.ClientIP() + c.Request.URL.Path
		}
	}
	if cfg.Store == nil {
		cfg.Store = NewMemoryCounterStore(cfg.Window)
	}

	half := cfg.MaxRequests / 2

	return func(c *gin.Context) {
		key := cfg.KeyFunc(c)

		count, err := cfg.Store.Incr(key, cfg.Window)
		if err != nil {
			// 计数器不可用时放行，不让限流故障阻断正常请求
			c.Next()
			return
		}

		// 硬限制：超过阈值直接拒绝
		if count > cfg.MaxRequests {
			response.Fail(c, code.ErrTooManyRequests, nil)
			c.Abort()
			return
		}

		// 软退避：超过阈值一半后按超出量附加延迟
		if count > half {
			time.Sleep(time.Duration(count-half) * cfg.BackoffStep)
		}

		c.Next()
	}
}

// NewRateLimiterConfig 从应用配置构造限流配置
func NewRateLimiterConfig(cfg *config.Config, store CounterStore) RateLimiterConfig {
	return RateLimiterConfig{
		Window:      time.Duration(cfg.RateLimitWindowMinutes) * time.Minute,
		MaxRequests: cfg.RateLimitMaxRequests,
		BackoffStep: time.Duration(cfg.RateLimitBackoffMs) * time.Millisecond,
		Store:       store,
	}
}

// EndpointRateLimiter 通用端点限流：按 客户端IP+路径 计数
func EndpointRateLimiter(cfg RateLimiterConfig) gin.HandlerFunc {
	cfg.KeyFunc = func(c *gin.Context) string {
		return c.ClientIP() + c.Request.URL.Path
	}
	return RateLimiter(cfg)
}

// VerifyRateLimiter 校验端点限流：按 客户端IP+目标设备 计数，
// 单个攻击者无法用一台设备耗尽其他设备共享的预算
func VerifyRateLimiter(cfg RateLimiterConfig) gin.HandlerFunc {
	cfg.KeyFunc = func(c *gin.Context) string {
		return c.ClientIP() + "/access/verify/" + c.Param("id")
	}
	return RateLimiter(cfg)
}
