package handler

import (
	"net/http"
	"strings"

	"github.com/MohamadAmiin/diet-app-just-project/internal/db"
	"github.com/gin-gonic/gin"
)

// AuthRequired 校验 Bearer 令牌并把对应用户写入请求上下文。
// 用户信息每次都从数据库重新加载，保证角色变更即时生效。
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondError(c, http.StatusUnauthorized, "缺少认证令牌")
			c.Abort()
			return
		}

		userID, err := a.auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondError(c, http.StatusUnauthorized, "认证令牌无效或已过期")
			c.Abort()
			return
		}

		user, err := a.auth.GetUser(userID)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "认证令牌无效或已过期")
			c.Abort()
			return
		}

		c.Set(userContextKey, *user)
		c.Next()
	}
}

// AdminRequired 要求当前用户具有管理员角色，需在 AuthRequired 之后使用
func (a *API) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "缺少认证令牌")
			c.Abort()
			return
		}
		if user.Role != db.RoleAdmin {
			respondError(c, http.StatusForbidden, "没有权限访问该资源")
			c.Abort()
			return
		}
		c.Next()
	}
}
