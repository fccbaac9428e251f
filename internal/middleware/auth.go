package middleware

import (
	"context"
	"skill_tracker_backend/internal/config"
	"skill_tracker_backend/internal/model"
	"skill_tracker_backend/internal/service"
	"skill_tracker_backend/internal/util"
	"skill_tracker_backend/pkg/logger"
	"skill_tracker_backend/pkg/tracing"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccountChecker 每个请求确认账号仍然存在且未停用
type AccountChecker interface {
	IsActive(ctx context.Context, userID uint) (bool, error)
}

// AuthMiddleware blacklist 可以为 nil（未启用 Redis）；accounts 为 nil 时只校验 token
func AuthMiddleware(cfg *config.Config, blacklist service.TokenBlacklist, accounts AccountChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("JWT parse failed", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if blacklist != nil && claims.ID != "" {
			revoked, err := blacklist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				util.LogInternalError(c, err)
				c.Abort()
				return
			}
			if revoked {
				util.Unauthorized(c)
				c.Abort()
				return
			}
		}

		if accounts != nil {
			active, err := accounts.IsActive(c.Request.Context(), claims.UserID)
			if err != nil {
				util.LogInternalError(c, err)
				c.Abort()
				return
			}
			if !active {
				util.Unauthorized(c)
				c.Abort()
				return
			}
		}

		c.Set("user", claims)
		c.Set(tracing.UserIDKey, claims.UserID)
		c.Next()
	}
}

// PermissionChecker 管理端权限判断
type PermissionChecker interface {
	HasAdminPermission(ctx context.Context, userID uint, action model.Action, entity model.EntityType) (bool, error)
}

// RequirePermission 需要 staff/superuser 且拥有 action_entity 权限
func RequirePermission(checker PermissionChecker, action model.Action, entity model.EntityType) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		ok, err := checker.HasAdminPermission(c.Request.Context(), user.UserID, action, entity)
		if err != nil {
			util.LogInternalError(c, err)
			c.Abort()
			return
		}
		if !ok {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
