package middleware

import (
	"time"

	"iaccess-http-service/internal/domain/services"
)

// RedisCounterStore 基于Redis的限流计数器，多实例部署共享同一份计数
type RedisCounterStore struct {
	Redis services.InterfaceRedisService
}

// NewRedisCounterStore 创建Redis计数器存储
func NewRedisCounterStore(redis services.InterfaceRedisService) *RedisCounterStore {
	return &RedisCounterStore{Redis: redis}
}

// Incr 自增窗口计数，由Redis的键过期实现窗口滚动
func (s *RedisCounterStore) Incr(key string, window time.Duration) (int, error) {
	count, err := s.Redis.IncrWindow("ratelimit:"+key, window)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// FallbackCounterStore 优先使用主存储计数，主存储出错时退回备用存储。
// Redis不可用期间校验端点仍保有单实例级别的限流保护
type FallbackCounterStore struct {
	Primary  CounterStore
	Fallback CounterStore
}

// NewFallbackCounterStore 创建带备用存储的计数器
func NewFallbackCounterStore(primary, fallback CounterStore) *FallbackCounterStore {
	return &FallbackCounterStore{Primary: primary, Fallback: fallback}
}

// Incr 自增窗口计数，主存储出错时转由备用存储计数
func (s *FallbackCounterStore) Incr(key string, window time.Duration) (int, error) {
	count, err := s.Primary.Incr(key, window)
	if err != nil {
		return s.Fallback.Incr(key, window)
	}
	return count, nil
}
