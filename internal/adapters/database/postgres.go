package database

import (
	"fmt"

	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/config"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const DB_NAME = "gsc"

const LOCAL_CONNECTION_STRING = "user=postgres password=postgres dbname=gsc sslmode=disable"

const MAIN_SCHEMA = "gsc"
const TESTING_SCHEMA = "gsc_test"

func GetSchemaName(isTesting bool) string {
	if isTesting {
		return TESTING_SCHEMA
	}
	return MAIN_SCHEMA
}

func NewPostgresDatabase(connectionString string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	err = createDatabaseIfNotExists(db, DB_NAME)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	return db, nil
}

// NewSupabasePostgresDatabase connects to the Supabase-hosted Postgres
// instance, or a local Postgres in development. Supabase manages the
// database itself, so no create-if-missing step is performed there.
func NewSupabasePostgresDatabase(conf config.Config) (*sqlx.DB, error) {
	if conf.IsDevelopment() {
		db, err := NewPostgresDatabase(LOCAL_CONNECTION_STRING)
		if err != nil {
			return nil, fmt.Errorf("failed to create local postgres database: %w", err)
		}
		return db, nil
	}

	db, err := sqlx.Connect("postgres", GetSupabaseConnectionString(conf.SupabaseURL(), conf.SupabaseServiceKey()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to supabase postgres: %w", err)
	}

	return db, nil
}

func createDatabaseIfNotExists(db *sqlx.DB, dbName string) error {
	row := db.QueryRowx("SELECT COUNT(*) FROM pg_database WHERE datname = $1", dbName)
	if row.Err() != nil {
		return fmt.Errorf("createDB: failed to check if database exists: %w", row.Err())
	}

	var count int
	if err := row.Scan(&count); err != nil {
		return fmt.Errorf("createDB: failed to scan row: %w", err)
	}

	if count > 0 {
		return nil
	}

	_, err := db.Exec(fmt.Sprintf("CREATE DATABASE %s", pq.QuoteIdentifier(dbName)))
	if err != nil {
		return fmt.Errorf("createDB: failed to create database: %w", err)
	}

	return nil
}
