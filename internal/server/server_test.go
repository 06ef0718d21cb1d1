package server_test

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/Pyle49R/littlenodedatabase/internal/database"
	"github.com/Pyle49R/littlenodedatabase/internal/model"
	"github.com/Pyle49R/littlenodedatabase/internal/server"
	"github.com/appleboy/gofight/v2"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

const (
	adminSecret    = "0000000000000000000042"
	readOnlySecret = "4200000000"
)

func setup(t *testing.T) (engine *echo.Echo, ctrl server.IOC, r *gofight.RequestConfig) {
	t.Helper()

	db, err := database.JSONOpen(filepath.Join(t.TempDir(), "littlenodedatabase.json"))
	if err != nil {
		panic(err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	ctrl = server.IOC{
		Version:        "test",
		Database:       db,
		AdminSecret:    adminSecret,
		ReadOnlySecret: readOnlySecret,
		RateLimit:      10000, // out of the way for tests
	}
	engine = server.EchoEngine(ctrl)

	return engine, ctrl, gofight.New()
}

func adminHeader() gofight.H {
	return gofight.H{"X-Api-Key": adminSecret}
}

func readOnlyHeader() gofight.H {
	return gofight.H{"X-Api-Key": readOnlySecret}
}

func createItem(engine *echo.Echo, r *gofight.RequestConfig, name, value string) (item model.Item) {
	r.POST("/tx").SetHeader(adminHeader()).SetJSON(gofight.D{
		"name":  name,
		"value": value,
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		if r.Code != http.StatusOK {
			panic("could not create item: " + r.Body.String())
		}

		var v struct {
			Item model.Item `json:"item"`
		}
		if err := json.Unmarshal(r.Body.Bytes(), &v); err != nil {
			panic(err)
		}
		item = v.Item
	})
	return item
}

// flakydb simulates an unavailable persistence medium.
type flakydb struct {
	database.Client
	fail bool
}

func (f *flakydb) Save(doc *model.Document) error {
	if f.fail {
		return errors.New("could not replace database: medium unavailable")
	}
	return f.Client.Save(doc)
}

func TestRequestItemCreateStorageFailure(t *testing.T) {
	engine, ctrl, r := setup(t)

	db := &flakydb{Client: ctrl.Database, fail: true}
	ctrl.Database = db
	engine = server.EchoEngine(ctrl)

	// A failing save aborts the request with an opaque 500, the item is
	// never acknowledged.
	r.POST("/tx").SetHeader(adminHeader()).SetJSON(gofight.D{
		"name":  "host",
		"value": "10.0.0.1",
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusInternalServerError, r.Code)
		assert.Contains(t, r.Body.String(), "Unexpected error")
		assert.NotContains(t, r.Body.String(), "success")
		assert.NotContains(t, r.Body.String(), "medium unavailable")
	})

	// The rejected mutation left nothing behind.
	db.fail = false
	r.GET("/rx").SetHeader(adminHeader()).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.JSONEq(t, `[]`, r.Body.String())
	})

	// The same medium failure on delete-all is surfaced the same way.
	item := createItem(engine, r, "host", "10.0.0.1")
	db.fail = true
	r.DELETE("/tx").SetHeader(adminHeader()).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusInternalServerError, r.Code)
		assert.Contains(t, r.Body.String(), "Unexpected error")
	})

	// Nothing was cleared by the failed delete.
	db.fail = false
	r.GET("/rx/" + item.Name).SetHeader(adminHeader()).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		var items []model.Item
		assert.NoError(t, json.Unmarshal(r.Body.Bytes(), &items))
		assert.Len(t, items, 1)
	})
}

func TestRequestHome(t *testing.T) {
	engine, _, r := setup(t)

	r.GET("/").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.JSONEq(t, `{"status":"ok, standby"}`, r.Body.String())
	})
}

func TestRequestVersion(t *testing.T) {
	engine, _, r := setup(t)

	r.GET("/version").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.JSONEq(t, `{"version":"test"}`, r.Body.String())
	})
}

func TestRequestMetrics(t *testing.T) {
	engine, _, r := setup(t)

	r.GET("/").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
	})

	r.GET("/metrics").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.Contains(t, r.Body.String(), "littledb_http_requests_total")
	})
}
