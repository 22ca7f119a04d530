package postgres

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "github.com/lib/pq"

	"fbwsupplies_sync/config"
)

const maxRetries = 5
const dbMaxOpenConns = 5
const retryDelay = 3 * time.Second

type PostgresDatabase struct {
	config.DbConfig
	db *sql.DB
	mu sync.Mutex // Для защиты доступа к db
}

func NewPgConnector(dbConfig config.DbConfig) *PostgresDatabase {
	return &PostgresDatabase{DbConfig: dbConfig}
}

func (pg *PostgresDatabase) Connect() (*sql.DB, error) {
	pg.mu.Lock()
	defer pg.mu.Unlock()

	if pg.db != nil {
		return pg.db, nil
	}

	var err error
	conStr := pg.GetConnectionString()

	for i := 0; i < maxRetries; i++ {
		pg.db, err = sql.Open("postgres", conStr)
		if err != nil {
			log.Printf("Failed to connect to Postgres (attempt %d/%d): %v", i+1, maxRetries, err)
			time.Sleep(retryDelay)
			continue
		}

		pg.db.SetMaxOpenConns(dbMaxOpenConns)

		if err = pg.db.Ping(); err != nil {
			log.Printf("Failed to ping Postgres db (attempt %d/%d): %v", i+1, maxRetries, err)
			pg.db.Close()
			pg.db = nil
			time.Sleep(retryDelay)
			continue
		}

		log.Printf("Successfully connected to Postgres")
		return pg.db, nil
	}
	return nil, fmt.Errorf("postgres connection failed after %d attempts: %w", maxRetries, err)
}

func (pg *PostgresDatabase) Ping() error {
	pg.mu.Lock()
	defer pg.mu.Unlock()

	if pg.db == nil {
		return fmt.Errorf("database connection is not established")
	}

	if err := pg.db.Ping(); err != nil {
		pg.db.Close()
		pg.db = nil
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}
