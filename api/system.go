package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger is a dependency checked by the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health reports "ok" when every registered dependency answers and
// "degraded" with 503 otherwise.
func Health(deps map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		if len(deps) > 0 {
			resp.Checks = make(map[string]string, len(deps))
		}
		for name, dep := range deps {
			if err := dep.Ping(c.Request.Context()); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		c.JSON(status, resp)
	}
}

func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
