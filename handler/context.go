package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/starfederation/datastar-go/datastar"
)

// Context wraps http.Request and http.ResponseWriter with context.Context.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	// SSE returns the DataStar event generator for this request, creating it
	// on first use. It returns nil for non-DataStar requests.
	SSE() *datastar.ServerSentEventGenerator
}

// NewContext creates a Context for the request.
func NewContext(w http.ResponseWriter, r *http.Request) Context {
	return &httpContext{w: w, r: r}
}

type httpContext struct {
	w       http.ResponseWriter
	r       *http.Request
	sseOnce sync.Once
	sse     *datastar.ServerSentEventGenerator
}

func (c *httpContext) Request() *http.Request {
	return c.r
}

func (c *httpContext) ResponseWriter() http.ResponseWriter {
	return c.w
}

func (c *httpContext) SSE() *datastar.ServerSentEventGenerator {
	c.sseOnce.Do(func() {
		if IsDataStar(c.r) {
			c.sse = datastar.NewSSE(c.w, c.r)
		}
	})
	return c.sse
}

func (c *httpContext) Deadline() (time.Time, bool) {
	return c.r.Context().Deadline()
}

func (c *httpContext) Done() <-chan struct{} {
	return c.r.Context().Done()
}

func (c *httpContext) Err() error {
	return c.r.Context().Err()
}

func (c *httpContext) Value(key any) any {
	return c.r.Context().Value(key)
}
