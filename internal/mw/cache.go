package mw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

type cachedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

type bodyCacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyCacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w bodyCacheWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// KeyFunc derives the cache key for a request. Tenant-scoped endpoints
// must include the tenant in the key; a bare RequestURI would leak one
// company's response to another.
type KeyFunc func(c *gin.Context) string

// ByURI keys the cache on the request URI alone. Safe only for public
// endpoints.
func ByURI(c *gin.Context) string {
	return c.Request.RequestURI
}

// ByURIAndCompany keys the cache on the URI plus the authenticated
// company, so each tenant gets its own entry.
func ByURIAndCompany(c *gin.Context) string {
	return c.GetString(CtxCompanyID) + "|" + c.Request.RequestURI
}

// Cache is a middleware for in-memory caching of GET responses.
func Cache(store *cache.Cache, duration time.Duration, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		k := key(c)
		if resp, found := store.Get(k); found {
			cached := resp.(cachedResponse)
			for h, v := range cached.headers {
				c.Writer.Header()[h] = v
			}
			c.Writer.WriteHeader(cached.status)
			c.Writer.Write(cached.body)
			c.Abort()
			return
		}

		blw := &bodyCacheWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// Only cache successful responses
		if blw.Status() >= 200 && blw.Status() < 300 {
			store.Set(k, cachedResponse{
				status:  blw.Status(),
				headers: blw.Header().Clone(),
				body:    blw.body.Bytes(),
			}, duration)
		}
	}
}
