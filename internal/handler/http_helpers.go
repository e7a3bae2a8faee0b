package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/MohamadAmiin/diet-app-just-project/internal/db"
	"github.com/gin-gonic/gin"
)

const userContextKey = "__current_user"

// 响应统一使用 {success, message?, data?, count?} 信封

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, message string, data interface{}) {
	payload := gin.H{"success": true, "message": message}
	if data != nil {
		payload["data"] = data
	}
	c.JSON(status, payload)
}

func respondList(c *gin.Context, count int, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count, "data": data})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// parseDate 解析 YYYY-MM-DD 格式的日期，按本地时区处理
func parseDate(raw string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", raw, time.Local)
}

// currentUser 返回认证中间件写入的当前用户
func currentUser(c *gin.Context) (db.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return db.User{}, false
	}
	user, ok := value.(db.User)
	return user, ok
}

// isAdmin 判断当前请求是否来自管理员
func isAdmin(c *gin.Context) bool {
	user, ok := currentUser(c)
	return ok && user.Role == db.RoleAdmin
}
