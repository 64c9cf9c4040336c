package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotation-wall/internal/platform/logging"
)

// Logging logs one line per completed request at a level chosen by status.
// Probe routes under /-/ and the given prefixes (such as the image assets)
// are not logged.
func Logging(skipPrefixes ...string) gin.HandlerFunc {
	skip := append([]string{"/-/"}, skipPrefixes...)

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range skip {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		if c.Request.URL.RawQuery != "" {
			path += "?" + c.Request.URL.RawQuery
		}

		logging.FromContext(c.Request.Context()).Log(c.Request.Context(), level, "request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}
