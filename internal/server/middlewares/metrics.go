package middlewares

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Pyle49R/littlenodedatabase/internal/lnerror"
	"github.com/VictoriaMetrics/metrics"
	"github.com/labstack/echo/v4"
)

// Metrics counts and times requests per route. The route pattern is used
// instead of the raw URI to keep the label cardinality bounded.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			method := c.Request().Method
			path := c.Path()
			status := c.Response().Status
			if err != nil {
				switch err := err.(type) {
				case *echo.HTTPError:
					status = err.Code
				default:
					status = lnerror.StatusCode(err)
				}
			}
			if status == 0 {
				status = http.StatusInternalServerError
			}

			metrics.GetOrCreateCounter(fmt.Sprintf(
				`littledb_http_requests_total{method=%q,path=%q,status="%d"}`,
				method, path, status,
			)).Inc()
			metrics.GetOrCreateSummary(fmt.Sprintf(
				`littledb_http_request_duration_seconds{method=%q,path=%q}`,
				method, path,
			)).UpdateDuration(start)

			return err
		}
	}
}

// WriteMetrics renders all gathered metrics in Prometheus text format.
func WriteMetrics(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextPlainCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	metrics.WritePrometheus(c.Response(), true)
	return nil
}
