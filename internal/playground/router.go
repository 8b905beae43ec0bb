// Package playground serves a local HTTP front end for the LPDB client.
package playground

import (
	"errors"
	"log"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/r9s-ai/lpdb-go/internal/logx"
	"github.com/r9s-ai/lpdb-go/pkg/lpdb"
	"github.com/r9s-ai/lpdb-go/pkg/requestid"
	"github.com/r9s-ai/lpdb-go/pkg/schema"
)

const (
	ctxResource       = "lpdb.resource"
	ctxUpstreamStatus = "lpdb.upstream_status"
)

type RouterOptions struct {
	Client *lpdb.Client

	// AccessLogger is nil when access logging is disabled.
	AccessLogger       *log.Logger
	AccessLogColor     bool
	AccessLogFormat    *logx.AccessLogFormatter
	RequestIDHeaderKey string
}

func NewRouter(opts RouterOptions) *gin.Engine {
	headerKey := requestid.ResolveHeaderKey(opts.RequestIDHeaderKey)
	r := gin.New()
	r.Use(requestIDMiddleware(headerKey))
	if opts.AccessLogger != nil {
		r.Use(requestLogger(opts.AccessLogger, opts.AccessLogColor, headerKey, opts.AccessLogFormat))
	}
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	v1 := r.Group("/v1")
	v1.GET("/resources", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"resources": opts.Client.Schema().Map()})
	})
	v1.GET("/query/*resource", makeQueryHandler(opts.Client))
	v1.POST("/conditions", handleConditions)
	return r
}

func makeQueryHandler(client *lpdb.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		resource := schema.Resource(c.Param("resource")).Normalize()
		c.Set(ctxResource, string(resource))

		values := c.Request.URL.Query()
		names := make([]string, 0, len(values))
		for name := range values {
			names = append(names, name)
		}
		sort.Strings(names)

		q := client.Endpoint(resource)
		for _, name := range names {
			q.Set(name, values.Get(name))
		}
		if err := q.Err(); err != nil {
			var sv *lpdb.SchemaViolation
			if errors.As(err, &sv) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":    sv.Error(),
					"resource": string(sv.Resource),
					"param":    sv.Param,
				})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		body, err := q.ExecuteRaw(c.Request.Context())
		if err != nil {
			var apiErr *lpdb.APIError
			if errors.As(err, &apiErr) {
				c.Set(ctxUpstreamStatus, apiErr.Status)
				c.JSON(apiErr.Status, apiErr.Data)
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.Set(ctxUpstreamStatus, http.StatusOK)
		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
	}
}

func handleConditions(c *gin.Context) {
	var req conditionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	b, err := req.builder("terms")
	if err == nil {
		err = b.Err()
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conditions": b.String()})
}
