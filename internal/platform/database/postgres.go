package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"courseboard/internal/platform/config"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver
)

var DB *sql.DB

// Connect opens the pool and verifies it with a ping.
func Connect() error {
	db, err := sql.Open("pgx", config.AppConfig.DBConnStr)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	DB = db
	log.Println("INFO: Connected to PostgreSQL")
	return nil
}

func Close() {
	if DB != nil {
		DB.Close()
		log.Println("INFO: Database connection closed")
	}
}
