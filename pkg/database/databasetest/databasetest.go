// Package databasetest opens throwaway Postgres schemas for repository tests.
// Tests that use it are skipped unless TEST_DATABASE_URL is set.
package databasetest

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-coopconnect-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-coopconnect-go/pkg/utilities"
)

// Schema mirrors the externally managed tables the service reads and writes.
const Schema = `
CREATE TABLE city (
  city_id BIGINT PRIMARY KEY,
  avg_cost_of_living NUMERIC NOT NULL,
  avg_rent NUMERIC NOT NULL,
  avg_wage NUMERIC NOT NULL,
  name TEXT NOT NULL,
  population BIGINT NOT NULL,
  prop_hybrid_workers NUMERIC
);
CREATE TABLE location (
  zip TEXT PRIMARY KEY,
  city_id BIGINT NOT NULL REFERENCES city (city_id),
  student_population BIGINT
);
CREATE TABLE users (
  user_id BIGSERIAL PRIMARY KEY,
  email TEXT NOT NULL UNIQUE
);
CREATE TABLE job_posting (
  post_id BIGSERIAL PRIMARY KEY,
  title TEXT NOT NULL,
  bio TEXT NOT NULL,
  compensation NUMERIC NOT NULL,
  location_id BIGINT,
  user_id BIGINT NOT NULL REFERENCES users (user_id)
);`

// Open creates a fresh schema holding Schema, returns a pool whose
// connections all resolve unqualified names there, and drops the schema
// when the test ends.
func Open(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := database.Config{DSN: dsn, MaxConns: 2, Timeout: 5 * time.Second}
	admin, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	schema := "test_" + strings.ToLower(utilities.NewKSUID())
	if _, err := admin.Exec(`CREATE SCHEMA ` + schema); err != nil {
		admin.Close()
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := admin.ExecContext(ctx, `DROP SCHEMA `+schema+` CASCADE`); err != nil {
			t.Logf("drop schema %s: %v", schema, err)
		}
		admin.Close()
	})

	cfg.DSN, err = database.SessionDSN(dsn, map[string]string{"search_path": schema})
	if err != nil {
		t.Fatalf("session dsn: %v", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("connect %s: %v", schema, err)
	}
	// registered after the schema drop, so it runs first
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(Schema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

// Exec runs seed statements, failing the test on the first error.
func Exec(t *testing.T, db *sqlx.DB, stmts ...string) {
	t.Helper()
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("seed %q: %v", s, err)
		}
	}
}
