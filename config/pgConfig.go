package config

import (
	"fmt"
)

type DbConfig interface {
	GetConnectionString() string
}

// PostgresConfig represents the configuration needed to connect to a PostgreSQL database
type PostgresConfig struct {
	// URL, если задан, имеет приоритет над остальными полями
	// (DATABASE_URL из Supabase/облачного Postgres).
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

func (pc PostgresConfig) GetConnectionString() string {
	if pc.URL != "" {
		return pc.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		pc.Host, pc.Port, pc.User, pc.Password, pc.DBName)
}
