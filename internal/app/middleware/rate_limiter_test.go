package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedRouter(cfg RateLimiterConfig, hits *int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/access/verify/:id", VerifyRateLimiter(cfg), func(c *gin.Context) {
		atomic.AddInt64(hits, 1)
		c.JSON(http.StatusOK, gin.H{"code": 0})
	})
	return r
}

func doVerify(r *gin.Engine, ip, intercomID string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/access/verify/"+intercomID, nil)
	req.RemoteAddr = ip + ":1234"
	r.ServeHTTP(w, req)
	return w
}

func testLimiterConfig(window time.Duration, max int) RateLimiterConfig {
	return RateLimiterConfig{
		Window:      window,
		MaxRequests: max,
		BackoffStep: time.Millisecond,
		Store:       NewMemoryCounterStore(window),
	}
}

func TestRateLimiterHardThreshold(t *testing.T) {
	var hits int64
	r := newLimitedRouter(testLimiterConfig(time.Minute, 5), &hits)

	for i := 0; i < 5; i++ {
		w := doVerify(r, "10.0.0.1", "10")
		assert.Equal(t, http.StatusOK, w.Code, "第%d个请求应放行", i+1)
	}

	// 第6个请求被拒绝，且不会到达处理器
	w := doVerify(r, "10.0.0.1", "10")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.EqualValues(t, 5, atomic.LoadInt64(&hits))
}

func TestRateLimiterKeyScopedPerIntercom(t *testing.T) {
	var hits int64
	r := newLimitedRouter(testLimiterConfig(time.Minute, 5), &hits)

	for i := 0; i < 5; i++ {
		doVerify(r, "10.0.0.1", "10")
	}
	w := doVerify(r, "10.0.0.1", "10")
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	// 同一IP对另一台设备的预算独立
	w = doVerify(r, "10.0.0.1", "11")
	assert.Equal(t, http.StatusOK, w.Code)

	// 另一IP对同一台设备的预算也独立
	w = doVerify(r, "10.0.0.2", "10")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiterWindowReset(t *testing.T) {
	var hits int64
	r := newLimitedRouter(testLimiterConfig(50*time.Millisecond, 2), &hits)

	doVerify(r, "10.0.0.1", "10")
	doVerify(r, "10.0.0.1", "10")
	w := doVerify(r, "10.0.0.1", "10")
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	// 窗口过期后首个请求重新计数
	time.Sleep(60 * time.Millisecond)
	w = doVerify(r, "10.0.0.1", "10")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiterSoftBackoff(t *testing.T) {
	cfg := testLimiterConfig(time.Minute, 4)
	cfg.BackoffStep = 20 * time.Millisecond

	var hits int64
	r := newLimitedRouter(cfg, &hits)

	// 阈值一半以内无延迟
	start := time.Now()
	doVerify(r, "10.0.0.1", "10")
	doVerify(r, "10.0.0.1", "10")
	assert.Less(t, time.Since(start), 15*time.Millisecond)

	// 超过一半后按超出量附加延迟
	start = time.Now()
	w := doVerify(r, "10.0.0.1", "10")
	require.Equal(t, http.StatusOK, w.Code)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	start = time.Now()
	w = doVerify(r, "10.0.0.1", "10")
	require.Equal(t, http.StatusOK, w.Code)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

// 始终返回错误的计数器，模拟Redis故障
type brokenCounterStore struct{}

func (brokenCounterStore) Incr(key string, window time.Duration) (int, error) {
	return 0, assert.AnError
}

func TestRateLimiterFallbackStoreKeepsThrottling(t *testing.T) {
	cfg := testLimiterConfig(time.Minute, 5)
	cfg.Store = NewFallbackCounterStore(
		brokenCounterStore{},
		NewMemoryCounterStore(time.Minute),
	)

	var hits int64
	r := newLimitedRouter(cfg, &hits)

	// 主存储持续出错时由备用存储计数，限流不失效
	for i := 0; i < 50; i++ {
		w := doVerify(r, "10.0.0.1", "10")
		if i < 5 {
			assert.Equal(t, http.StatusOK, w.Code, "第%d个请求应放行", i+1)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, w.Code, "第%d个请求应被拒绝", i+1)
		}
	}
	assert.EqualValues(t, 5, atomic.LoadInt64(&hits))
}

func TestFallbackCounterStorePrefersPrimary(t *testing.T) {
	primary := NewMemoryCounterStore(time.Minute)
	defer primary.Stop()
	fallback := NewMemoryCounterStore(time.Minute)
	defer fallback.Stop()

	store := NewFallbackCounterStore(primary, fallback)
	for i := 1; i <= 3; i++ {
		count, err := store.Incr("k", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}

	// 主存储正常时备用存储不参与计数
	fallback.mu.RLock()
	_, exists := fallback.counters["k"]
	fallback.mu.RUnlock()
	assert.False(t, exists)
}

func TestMemoryCounterStoreEviction(t *testing.T) {
	store := NewMemoryCounterStore(10 * time.Millisecond)
	defer store.Stop()

	_, err := store.Incr("stale-key", 10*time.Millisecond)
	require.NoError(t, err)

	// 两倍窗口后后台清理任务应移除闲置键
	assert.Eventually(t, func() bool {
		store.mu.RLock()
		defer store.mu.RUnlock()
		_, exists := store.counters["stale-key"]
		return !exists
	}, time.Second, 10*time.Millisecond)
}

func TestMemoryCounterStoreIncr(t *testing.T) {
	store := NewMemoryCounterStore(time.Minute)
	defer store.Stop()

	for i := 1; i <= 3; i++ {
		count, err := store.Incr("k", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}

	count, err := store.Incr("other", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
