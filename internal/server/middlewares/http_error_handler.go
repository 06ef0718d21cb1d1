package middlewares

import (
	"fmt"
	"net/http"

	"github.com/Pyle49R/littlenodedatabase/internal/lnerror"
	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// HTTPErrorHandler is a middleware that formats rendered errors.
func HTTPErrorHandler(err error, c echo.Context) {
	if !c.Response().Committed {
		switch err := err.(type) {
		case *echo.HTTPError:
			_ = c.JSON(err.Code, echo.Map{
				"error": echo.Map{
					"message": err.Message,
				},
			})
		case *lnerror.LNError:
			status := lnerror.StatusCode(err)
			if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
				_ = c.JSON(status, err)
				return
			}

			internal(err, c)
		default:
			internal(err, c)
		}
	}
}

// A storage failure ends up here: the request is aborted with a 500 carrying
// a correlation id, the cause only reaches the logs.
func internal(err error, c echo.Context) {
	id := uuid.Must(uuid.NewV4()).String()
	log.WithField("id", id).Error(err)

	_ = c.JSON(http.StatusInternalServerError, echo.Map{
		"error": echo.Map{
			"message": fmt.Sprintf("Unexpected error (id: %s)", id),
		},
	})
}
