package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/movieshelf/internal/auth"
	"github.com/user/movieshelf/internal/utils"
)

// 上下文键
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextName   = "name"
)

// RequireAuth 必须携带有效的 Bearer 令牌
func RequireAuth(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			utils.Unauthorized(c, "missing bearer token")
			c.Abort()
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			utils.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		// 将用户信息存入上下文
		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextName, claims.Name)

		c.Next()
	}
}

// extractToken 从 Authorization Header 中提取令牌
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// GetUserID 从上下文获取用户 ID（未登录返回空字符串）
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
