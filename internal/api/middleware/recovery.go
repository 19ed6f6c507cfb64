package middleware

import (
	"errors"
	"net"
	"net/http"
	"net/http/httputil"
	"os"
	"runtime/debug"
	"strings"

	"desguace/internal/logger"

	"github.com/gin-gonic/gin"
)

// Recovery turns a handler panic into a JSON 500. Panics caused by the client
// hanging up are dropped without a response.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		if isBrokenPipe(recovered) {
			log.Debug("Client closed connection on %s %s", c.Request.Method, c.Request.URL.Path)
			c.Abort()
			return
		}

		if gin.IsDebugging() {
			request, _ := httputil.DumpRequest(c.Request, false)
			log.Error("Panic recovered: %v\n%s\n%s", recovered, string(request), string(debug.Stack()))
		} else {
			log.Error("Panic recovered on %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	})
}

func isBrokenPipe(recovered interface{}) bool {
	err, ok := recovered.(error)
	if !ok {
		return false
	}
	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		return false
	}
	var sysErr *os.SyscallError
	if !errors.As(opErr.Err, &sysErr) {
		return false
	}
	msg := strings.ToLower(sysErr.Error())
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}
