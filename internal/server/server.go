package server

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/Pyle49R/littlenodedatabase/internal/database"
	"github.com/Pyle49R/littlenodedatabase/internal/repository"
	"github.com/Pyle49R/littlenodedatabase/internal/server/middlewares"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// An IOC is an Inversion Of Control pattern used to init the server package.
type IOC struct {
	Version  string
	Database database.Client
	// API-key params
	AdminSecret    string
	ReadOnlySecret string
	// Upstream request bounds
	RateLimit float64
	BodyLimit string
}

// EchoEngine instantiates the web server.
func EchoEngine(ctrl IOC) *echo.Echo {
	engine := echo.New()
	engine.Use(middleware.Recover())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig))
	engine.Use(middleware.Gzip())

	if ctrl.BodyLimit == "" {
		ctrl.BodyLimit = "8K"
	}
	engine.Use(middleware.BodyLimit(ctrl.BodyLimit))

	if ctrl.RateLimit <= 0 {
		ctrl.RateLimit = 20
	}
	engine.Use(middleware.RateLimiter(
		middleware.NewRateLimiterMemoryStore(rate.Limit(ctrl.RateLimit)),
	))

	engine.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${status}] ${method} ${uri} (${bytes_in}) ${latency_human}\n",
	}))
	engine.Use(middlewares.Metrics())
	engine.Binder = middlewares.NewBinder()
	// Error handler
	engine.HTTPErrorHandler = middlewares.HTTPErrorHandler

	////////////
	// Router //
	////////////

	keyring := middlewares.Keyring{
		AdminSecret:    ctrl.AdminSecret,
		ReadOnlySecret: ctrl.ReadOnlySecret,
	}

	// generic handlers
	//
	engine.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"status": "ok, standby",
		})
	})
	engine.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version": ctrl.Version,
		})
	})
	engine.GET("/metrics", middlewares.WriteMetrics)

	//
	// item handlers
	//
	item := &item{
		repo: repository.New(ctrl.Database),
	}

	rx := engine.Group("/rx", middlewares.RequireReadAccess(keyring))
	rx.GET("", item.List)
	rx.GET("/:name", item.Query)

	tx := engine.Group("/tx", middlewares.RequireAdminAccess(keyring))
	tx.POST("", item.Create)
	tx.PUT("/:id", item.Update)
	tx.DELETE("/:id", item.Delete)
	tx.DELETE("", item.DeleteAll)

	return engine
}

// PrintRoutes prints the Echo engine exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}
