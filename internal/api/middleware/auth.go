package middleware

import (
	"MoodCheckin/internal/pkg/consts"
	"MoodCheckin/internal/pkg/logger"
	"MoodCheckin/internal/pkg/response"
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIKeyMiddleware 校验共享密钥，服务端未配置密钥时所有受保护接口返回 500
func APIKeyMiddleware(apiKey string, diag *logger.Cooldown) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if apiKey == "" {
			diag.Error(ctx, "missing_api_key", "API key is not configured, rejecting protected requests")
			response.Fail(c, http.StatusInternalServerError, response.MsgMissingKey)
			return
		}

		presented := c.GetHeader(consts.APIKeyHeader)
		if presented == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(apiKey)) != 1 {
			diag.Warn(ctx, "invalid_api_key", "rejected request with missing or invalid API key",
				"client_ip", c.ClientIP(), "path", c.Request.URL.Path)
			response.Fail(c, http.StatusUnauthorized, response.MsgUnauthorized)
			return
		}

		c.Next()
	}
}
