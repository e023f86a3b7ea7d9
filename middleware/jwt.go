package middleware

import (
	"net/http"
	"strings"

	"github.com/Euroteck-developer/Reminder-App/types"
	"github.com/Euroteck-developer/Reminder-App/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const actorContextKey = "actor"

// AuthMiddleware accepts `Authorization: Bearer <token>` or, for websocket
// upgrades where browsers cannot set headers, a `token` query parameter.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, msg := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
				Success: false,
				Message: msg,
			})
			return
		}

		claims, err := utils.ParseUserToken(secret, tokenString)
		if err != nil {
			zap.L().Debug("rejected token", zap.String("path", c.FullPath()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
				Success: false,
				Message: "Invalid token",
			})
			return
		}

		c.Set(actorContextKey, claims.Actor())
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if token := c.Query("token"); token != "" {
			return token, ""
		}
		return "", "Authorization header is required"
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", "Authorization header format must be Bearer {token}"
	}
	return parts[1], ""
}

// Actor returns the authenticated caller set by AuthMiddleware.
func Actor(c *gin.Context) (types.Actor, bool) {
	v, ok := c.Get(actorContextKey)
	if !ok {
		return types.Actor{}, false
	}
	actor, ok := v.(types.Actor)
	return actor, ok
}
