package playground

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/r9s-ai/lpdb-go/internal/logx"
	"github.com/r9s-ai/lpdb-go/pkg/requestid"
)

func requestIDMiddleware(headerKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := requestid.FromClient(c.GetHeader(headerKey))
		c.Set(headerKey, id)
		c.Header(headerKey, id)
		c.Next()
	}
}

func requestLogger(l *log.Logger, color bool, requestIDHeaderKey string, formatter *logx.AccessLogFormatter) gin.HandlerFunc {
	if formatter == nil {
		def, _ := logx.ResolveAccessLogFormat("", "")
		formatter, _ = logx.CompileAccessLogFormat(def)
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]any{
			"request_id": c.GetString(requestIDHeaderKey),
			"query":      c.Request.URL.RawQuery,
		}
		if v, ok := c.Get(ctxResource); ok {
			fields["resource"] = v
		}
		if v, ok := c.Get(ctxUpstreamStatus); ok {
			fields["upstream_status"] = v
		}
		l.Println(formatter.Format(logx.Entry{
			Time:     time.Now(),
			Status:   c.Writer.Status(),
			Latency:  time.Since(start),
			ClientIP: c.ClientIP(),
			Method:   c.Request.Method,
			Path:     c.Request.URL.Path,
			Fields:   fields,
		}, color))
	}
}
