package config

import (
	"os"
)

// NewAppConfig собирает конфигурацию из переменных окружения.
// Значения по умолчанию совпадают с боевым CI-запуском.
func NewAppConfig() *AppConfig {
	return &AppConfig{
		Wildberries: WildberriesConfig{
			ApiKey:         os.Getenv("WB_SUPPLIES_TOKEN"),
			ApiURL:         getEnv("WB_API_URL", "https://supplies-api.wildberries.ru/api/v1/supplies"),
			LegacyDateType: os.Getenv("WB_DATE_TYPE_ENCODING") == "legacy",
		},
		Supplies: SuppliesConfig{
			Days:      getEnv("SUPPLIES_DAYS", "365"),
			Statuses:  getEnv("SUPPLIES_STATUSES", "1,2,3,4,5,6"),
			DateTypes: getEnv("SUPPLIES_DATE_TYPES", "createDate,supplyDate,factDate,updatedDate"),
			Schema:    getEnv("SUPPLIES_SCHEMA", "public"),
			Table:     getEnv("SUPPLIES_TABLE", "fbw_supplies"),
		},
		Postgres:    GetPostgresConfig(),
		MetricsAddr: os.Getenv("METRICS_ADDR"),
	}
}

func GetPostgresConfig() PostgresConfig {
	return PostgresConfig{
		URL:      os.Getenv("DATABASE_URL"),
		Host:     getEnv("POSTGRES_HOST", "localhost"),
		Port:     getEnv("POSTGRES_PORT", "5432"),
		User:     getEnv("POSTGRES_USER", "postgres"),
		Password: getEnv("POSTGRES_PASSWORD", "postgres"),
		DBName:   getEnv("POSTGRES_NAME", "postgres"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
