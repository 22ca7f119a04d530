package supplies

import (
	"database/sql"
	"fmt"
	"log"
)

type MigrationsSchema struct{}

func (m *MigrationsSchema) UpMigration(db *sql.DB) error {
	query := `
		CREATE SCHEMA IF NOT EXISTS migrations;
	`
	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create migrations schema: %w", err)
	}
	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS migrations.migrations (
            id SERIAL PRIMARY KEY,
            time TIMESTAMP NOT NULL,
            name VARCHAR(255) UNIQUE NOT NULL
        );
    `)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

type CreateTargetSchema struct {
	Schema string
}

func (m *CreateTargetSchema) UpMigration(db *sql.DB) error {
	query := fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s;`, m.Schema)
	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create schema %s: %w", m.Schema, err)
	}
	return nil
}

// CreateFBWSuppliesTable создает целевую таблицу поставок. Даты хранятся
// как timestamptz, wb_key — ключ дедупликации и первичный ключ.
type CreateFBWSuppliesTable struct {
	Schema string
	Table  string
}

func (m *CreateFBWSuppliesTable) UpMigration(db *sql.DB) error {
	migrationName := fmt.Sprintf("%s.%s", m.Schema, m.Table)
	if ok, err := checkAndSkipMigration(db, migrationName); err != nil {
		return err
	} else if ok {
		return nil
	}
	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s.%s (
		wb_key VARCHAR(64) PRIMARY KEY,
		supply_id INT,
		preorder_id INT,
		phone VARCHAR(32),
		create_date TIMESTAMP WITH TIME ZONE,
		supply_date TIMESTAMP WITH TIME ZONE,
		fact_date TIMESTAMP WITH TIME ZONE,
		updated_date TIMESTAMP WITH TIME ZONE,
		status_id INT
	);`, m.Schema, m.Table)
	if err := executeAndMarkMigration(db, query, migrationName); err != nil {
		return err
	}
	log.Printf("Migration '%s' completed successfully.", migrationName)
	return nil
}

func checkAndSkipMigration(db *sql.DB, migrationName string) (bool, error) {
	var migrationExists bool
	err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM migrations.migrations WHERE name = $1)", migrationName).Scan(&migrationExists)
	if err != nil {
		return migrationExists, fmt.Errorf("failed to check migration status: %w", err)
	}
	if migrationExists {
		log.Printf("Migration '%s' already completed. Skipping.\n", migrationName)
		return migrationExists, nil
	}
	return migrationExists, nil
}

func executeAndMarkMigration(db *sql.DB, query string, migrationName string) error {
	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to execute migration '%s': %w", migrationName, err)
	}
	_, err = db.Exec("INSERT INTO migrations.migrations (name, time) VALUES ($1, current_timestamp)", migrationName)
	if err != nil {
		return fmt.Errorf("failed to mark migration '%s' as complete: %w", migrationName, err)
	}
	return nil
}
