package middleware

import (
	"net/http"
	"strings"

	"iaccess-http-service/internal/domain/services"
	"iaccess-http-service/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

var jwtService services.InterfaceJWTService

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(cfg *config.Config) {
	jwtService = services.NewJWTService(cfg)
}

// extractToken 从授权头中提取token
func extractToken(authHeader string) string {
	// 检查并移除 "Bearer " 前缀
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

// abortUnauthorized 以统一格式返回401
func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"code":    401,
		"message": message,
		"data":    nil,
	})
	c.Abort()
}

// authenticate 校验令牌并将调用者身份写入上下文
func authenticate(c *gin.Context) *services.Identity {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		abortUnauthorized(c, "Authorization header is required")
		return nil
	}

	identity, err := jwtService.ExtractIdentity(extractToken(authHeader))
	if err != nil {
		abortUnauthorized(c, "Invalid token: "+err.Error())
		return nil
	}

	// 存储身份到上下文，供控制器与服务层策略检查使用
	c.Set("identity", identity)
	c.Set("userID", identity.UserID)
	c.Set("role", identity.Role)
	if identity.TenantID != nil {
		c.Set("tenantID", *identity.TenantID)
	}
	return identity
}

// AuthenticateUser 验证任意已登录用户
func AuthenticateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity := authenticate(c); identity != nil {
			c.Next()
		}
	}
}

// AuthenticateStaff 验证物业人员权限（管理员或物业经理）
func AuthenticateStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := authenticate(c)
		if identity == nil {
			return
		}

		if !identity.IsPrivileged() {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    403,
				"message": "Insufficient permissions: requires admin or manager role",
				"data":    nil,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthenticateAdmin 验证系统管理员权限
func AuthenticateAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := authenticate(c)
		if identity == nil {
			return
		}

		if identity.Role != services.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    403,
				"message": "Insufficient permissions: requires system admin role",
				"data":    nil,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetIdentity 从上下文中取出已认证的身份
func GetIdentity(c *gin.Context) *services.Identity {
	value, exists := c.Get("identity")
	if !exists {
		return nil
	}
	identity, ok := value.(*services.Identity)
	if !ok {
		return nil
	}
	return identity
}
