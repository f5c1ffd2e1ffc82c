package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lshigami/acebrainiac/config"
)

// Backend is an in-process stand-in for the admin REST API.
type Backend struct {
	Router *gin.Engine
	Server *httptest.Server

	mu    sync.Mutex
	calls []Call
}

// Call is one request received by the Backend.
type Call struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
}

func NewBackend(t *testing.T) *Backend {
	t.Helper()
	gin.SetMode(gin.TestMode)
	b := &Backend{Router: gin.New()}
	b.Router.Use(func(c *gin.Context) {
		b.mu.Lock()
		b.calls = append(b.calls, Call{
			Method: c.Request.Method,
			Path:   c.Request.URL.Path,
			Query:  c.Request.URL.Query(),
			Header: c.Request.Header.Clone(),
		})
		b.mu.Unlock()
		c.Next()
	})
	b.Server = httptest.NewServer(b.Router)
	t.Cleanup(b.Server.Close)
	return b
}

// Config returns a client configuration pointed at the Backend.
func (b *Backend) Config() *config.Config {
	return &config.Config{
		API:   config.API{BaseURL: b.Server.URL, Timeout: 5 * time.Second},
		Lists: config.Lists{SearchDebounce: 500 * time.Millisecond},
		Log:   config.Log{Level: "disabled"},
	}
}

// Calls returns the recorded requests matching method and path.
func (b *Backend) Calls(method, path string) []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Call
	for _, c := range b.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// CallCount counts every recorded request.
func (b *Backend) CallCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}
