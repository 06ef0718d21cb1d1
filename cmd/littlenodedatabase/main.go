package main

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Pyle49R/littlenodedatabase/internal/database"
	"github.com/Pyle49R/littlenodedatabase/internal/server"
	"github.com/Pyle49R/littlenodedatabase/internal/server/middlewares"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const dbname = "littlenodedatabase.json"

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cfg string
)

func main() {
	c := &coral.Command{
		Use:     "littlenodedatabase",
		Short:   "API-key gated item store over HTTP",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    coral.ExactArgs(0),
	}
	initCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(initCmd)

	serverCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(serverCmd)

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func konfigure() (*koanf.Koanf, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	konf := koanf.New(".")
	if cfg != "" {
		if err := konf.Load(file.Provider(cfg), yaml.Parser()); err != nil {
			return nil, errors.Wrap(err, "could not load configuration file")
		}
	}

	// Every key can be overridden from the environment,
	// e.g. LITTLEDB_ADMIN_SECRET, LITTLEDB_ADDRESS.
	err := konf.Load(env.Provider("LITTLEDB_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "LITTLEDB_"))
	}), nil)
	return konf, errors.Wrap(err, "could not load environment")
}

func dbnameWithPath(path string) string {
	if len(path) == 0 {
		return dbname
	}
	return filepath.Join(path, dbname)
}

var (
	initCmd = &coral.Command{
		Use:   "init",
		Short: "Init the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := konfigure()
			if err != nil {
				return err
			}

			return database.JSONInit(dbnameWithPath(konf.String("database_path")))
		},
	}

	//
	//
	serverCmd = &coral.Command{
		Use:   "server",
		Short: "Start server",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := konfigure()
			if err != nil {
				return err
			}

			adminSecret := konf.String("admin_secret")
			if len(adminSecret) < middlewares.MinAdminSecretLength {
				return errors.Errorf("admin_secret is required and must be at least %d characters long", middlewares.MinAdminSecretLength)
			}

			readOnlySecret := konf.String("readonly_secret")
			if readOnlySecret != "" && len(readOnlySecret) < middlewares.MinReadOnlySecretLength {
				log.Warnf("readonly_secret is shorter than %d characters, read-only access is disabled", middlewares.MinReadOnlySecretLength)
				readOnlySecret = ""
			}

			db, err := database.JSONOpen(dbnameWithPath(konf.String("database_path")))
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			engine := server.EchoEngine(server.IOC{
				Version:        version,
				Database:       db,
				AdminSecret:    adminSecret,
				ReadOnlySecret: readOnlySecret,
				RateLimit:      konf.Float64("rate_limit"),
				BodyLimit:      konf.String("body_limit"),
			})
			server.PrintRoutes(engine)

			address := konf.String("address")
			if address == "" {
				address = ":5000"
			}
			log.Infof("Server listening on %s", address)
			return errors.Wrap(engine.Start(address), "could not run server")
		},
	}
)
