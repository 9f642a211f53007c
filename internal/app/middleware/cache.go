package middleware

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// 审计查询结果缓存条目
type auditCacheEntry struct {
	Content    []byte
	Expiration time.Time
}

// 进程内的审计查询缓存。访问日志只追加不修改，
// 短暂缓存分页结果不会返回被篡改的数据，只会晚一点看到新记录
type auditCache struct {
	sync.RWMutex
	items map[string]auditCacheEntry
}

var queryCache = &auditCache{
	items: make(map[string]auditCacheEntry),
}

// auditCacheKey 生成缓存键：路径 + 排序后的查询参数 + 调用者身份。
// 租户只能看到自己的记录，身份必须参与键的计算
func auditCacheKey(c *gin.Context) string {
	path := c.Request.URL.Path

	queryParams := c.Request.URL.Query()
	var queryKeys []string
	for key := range queryParams {
		queryKeys = append(queryKeys, key)
	}
	sort.Strings(queryKeys)

	var queryString string
	for _, key := range queryKeys {
		values := queryParams[key]
		sort.Strings(values)
		for _, value := range values {
			queryString += key + "=" + value + "&"
		}
	}

	caller := ""
	if identity := GetIdentity(c); identity != nil {
		caller = fmt.Sprintf("%d/%s", identity.UserID, identity.Role)
	}

	hasher := md5.New()
	hasher.Write([]byte(path + "?" + queryString + "#" + caller))
	return hex.EncodeToString(hasher.Sum(nil))
}

// AuditQueryCache 缓存审计查询的GET响应
func AuditQueryCache(expiration time.Duration) gin.HandlerFunc {
	if expiration <= 0 {
		expiration = time.Minute
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := auditCacheKey(c)

		// 尝试从缓存获取响应
		queryCache.RLock()
		entry, found := queryCache.items[key]
		queryCache.RUnlock()

		if found && entry.Expiration.After(time.Now()) {
			c.Data(http.StatusOK, "application/json; charset=utf-8", entry.Content)
			c.Abort()
			return
		}

		// 缓存未命中，捕获响应
		writer := &cacheResponseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		c.Next()

		// 只缓存成功的响应
		if c.Writer.Status() == http.StatusOK {
			queryCache.Lock()
			queryCache.items[key] = auditCacheEntry{
				Content:    writer.body.Bytes(),
				Expiration: time.Now().Add(expiration),
			}
			// 顺手清理已过期的条目
			now := time.Now()
			for k, e := range queryCache.items {
				if e.Expiration.Before(now) {
					delete(queryCache.items, k)
				}
			}
			queryCache.Unlock()
		}
	}
}

// 捕获响应内容的Writer
type cacheResponseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *cacheResponseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *cacheResponseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
