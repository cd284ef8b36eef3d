package db

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/bookstore-backend/pkg/config"
	"github.com/angelmondragon/bookstore-backend/pkg/logger"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testModel struct {
	ID   int
	Name string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestQueryLoggerForwardsSlowStatements(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.DebugLevel, Output: &buf})

	ql := queryLogger(context.Background(), config.DBConfig{SlowQueryThreshold: time.Millisecond}, logg)
	ql.Warn(context.Background(), "slow query %s", "SELECT 1")
	if !strings.Contains(buf.String(), "slow query SELECT 1") {
		t.Fatalf("expected slow query to be logged, got %q", buf.String())
	}

	buf.Reset()
	silent := queryLogger(context.Background(), config.DBConfig{}, logg)
	silent.Warn(context.Background(), "slow query %s", "SELECT 1")
	if buf.Len() != 0 {
		t.Fatalf("expected silent logger without threshold, got %q", buf.String())
	}
}

func TestDialectorForDrivers(t *testing.T) {
	if _, err := dialectorFor(config.DBConfig{Driver: "mysql", DSN: "x"}); err == nil {
		t.Fatal("expected unsupported driver error")
	}
	d, err := dialectorFor(config.DBConfig{Driver: config.DriverSQLite, DSN: "file::memory:"})
	if err != nil || d.Name() != "sqlite" {
		t.Fatalf("expected sqlite dialector, got %v err=%v", d, err)
	}
	d, err = dialectorFor(config.DBConfig{DSN: "postgres://localhost/bookstore"})
	if err != nil || d.Name() != "postgres" {
		t.Fatalf("expected postgres dialector by default, got %v err=%v", d, err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: roles.name"), "") {
		t.Fatal("expected sqlite unique failure to match")
	}
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "roles_name_key"}
	if !IsUniqueViolation(pgErr, "roles_name_key") {
		t.Fatal("expected pg unique failure to match constraint")
	}
	if IsUniqueViolation(pgErr, "users_email_key") {
		t.Fatal("expected pg unique failure on other constraint to be rejected")
	}
	if IsUniqueViolation(errors.New("boom"), "") || IsUniqueViolation(nil, "") {
		t.Fatal("expected unrelated errors to be rejected")
	}
}

func TestPing(t *testing.T) {
	db := newTestDB(t)
	client := &Client{conn: db}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}
