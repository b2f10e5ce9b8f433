package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"catalog-svc/pkg/jwt"
	"catalog-svc/pkg/logger"
)

// AuthConfig JWT认证配置
type AuthConfig struct {
	JWTSecret    string
	Issuer       string
	RequiredAuth bool // 是否必须认证
}

// Auth JWT认证中间件
func Auth(config AuthConfig, log logger.Logger) gin.HandlerFunc {
	jwtManager := jwt.NewManager(&jwt.Config{
		Secret: config.JWTSecret,
		Issuer: config.Issuer,
	})

	return func(c *gin.Context) {
		// 从Header获取Token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if config.RequiredAuth {
				c.JSON(http.StatusUnauthorized, gin.H{
					"code":    401,
					"message": "Missing authorization header",
				})
				c.Abort()
				return
			}
			c.Next()
			return
		}

		// 解析Bearer Token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		// 验证Token
		claims, err := jwtManager.ValidateToken(parts[1])
		if err != nil {
			log.WithFields(
				logger.String("request_id", GetRequestID(c)),
				logger.String("error", err.Error()),
			).Warn("JWT validation failed")

			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		// 将用户信息存储到上下文
		c.Set("user_id", claims.UserID)

		c.Next()
	}
}

// OptionalAuth 可选认证中间件（不强制要求Token）
func OptionalAuth(jwtSecret, issuer string, log logger.Logger) gin.HandlerFunc {
	return Auth(AuthConfig{
		JWTSecret:    jwtSecret,
		Issuer:       issuer,
		RequiredAuth: false,
	}, log)
}

// RequiredAuth 必须认证中间件
func RequiredAuth(jwtSecret, issuer string, log logger.Logger) gin.HandlerFunc {
	return Auth(AuthConfig{
		JWTSecret:    jwtSecret,
		Issuer:       issuer,
		RequiredAuth: true,
	}, log)
}

// CurrentUserID 从上下文获取当前用户ID，未认证时返回空串
func CurrentUserID(c *gin.Context) string {
	if id, exists := c.Get("user_id"); exists {
		if userID, ok := id.(string); ok {
			return userID
		}
	}
	return ""
}
