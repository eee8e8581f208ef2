//go:build integration

package integration

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	reposql "github.com/iyhunko/product-reviews/internal/repository/sql"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const (
	// externalDBEnv points the suite at an already running database instead of a container.
	externalDBEnv = "INTEGRATION_DATABASE_URL"

	migrationsDir = "../migrations"
	postgresImage = "postgres"
	postgresTag   = "16"
)

var testTables = []string{"events", "reviews", "products"}

// TestDB is a migrated PostgreSQL database for one test function.
type TestDB struct {
	DB       *sql.DB
	Pool     *dockertest.Pool
	Resource *dockertest.Resource
}

// SetupTestDB connects to INTEGRATION_DATABASE_URL when set, otherwise starts a
// disposable PostgreSQL container, and applies the migrations.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		t.Fatalf("Migrations directory not found: %s", migrationsDir)
	}

	tdb := &TestDB{}
	databaseURL := os.Getenv(externalDBEnv)
	if databaseURL == "" {
		databaseURL = tdb.startContainer(t)
	}

	log.Println("Connecting to database on url: ", databaseURL)

	connect := func() error {
		db, err := sql.Open("postgres", databaseURL)
		if err != nil {
			return err
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return err
		}
		tdb.DB = db
		return nil
	}

	var err error
	if tdb.Pool != nil {
		err = tdb.Pool.Retry(connect)
	} else {
		err = connect()
	}
	if err != nil {
		tdb.Cleanup(t)
		t.Fatalf("Could not connect to database: %s", err)
	}

	if err := reposql.RunMigrations(tdb.DB, "file://"+migrationsDir); err != nil {
		tdb.Cleanup(t)
		t.Fatalf("Could not run migrations: %s", err)
	}

	return tdb
}

func (tdb *TestDB) startContainer(t *testing.T) string {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("Could not connect to docker: %s", err)
	}
	pool.MaxWait = 120 * time.Second

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: postgresImage,
		Tag:        postgresTag,
		Env: []string{
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_USER=testuser",
			"POSTGRES_DB=reviews_test",
			"listen_addresses='*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("Could not start resource: %s", err)
	}
	tdb.Pool = pool
	tdb.Resource = resource

	// orphaned containers are reaped by docker after two minutes
	if err := resource.Expire(120); err != nil {
		tdb.Cleanup(t)
		t.Fatalf("Could not set expiration: %s", err)
	}

	return fmt.Sprintf("postgres://testuser:secret@%s/reviews_test?sslmode=disable", resource.GetHostPort("5432/tcp"))
}

// Cleanup closes the connection and removes the container, if one was started.
func (tdb *TestDB) Cleanup(t *testing.T) {
	t.Helper()

	if tdb.DB != nil {
		if err := tdb.DB.Close(); err != nil {
			t.Errorf("Could not close database: %s", err)
		}
	}

	if tdb.Pool != nil && tdb.Resource != nil {
		if err := tdb.Pool.Purge(tdb.Resource); err != nil {
			t.Errorf("Could not purge resource: %s", err)
		}
	}
}

// TruncateTables empties every table and restarts the id sequences.
func (tdb *TestDB) TruncateTables(t *testing.T) {
	t.Helper()

	query := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(testTables, ", "))
	if _, err := tdb.DB.ExecContext(context.Background(), query); err != nil {
		t.Fatalf("Could not truncate tables: %s", err)
	}
}
