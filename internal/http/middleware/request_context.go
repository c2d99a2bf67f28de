package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/applytrack-backend/internal/platform/ctxutil"
)

// AttachRequestUser puts the configured user on every request context.
// There is no authentication; services read the user from the context.
func AttachRequestUser(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: userID})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
