package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config interface {
}

type MarketplaceConfig interface {
}

// WildberriesConfig — доступ к supplies-api.wildberries.ru.
type WildberriesConfig struct {
	ApiKey string `yaml:"api_key"`
	ApiURL string `yaml:"api_url"`
	// LegacyDateType переключает кодирование dates[].Type на устаревшую
	// числовую форму (1..4). Строковая форма — каноническая.
	LegacyDateType bool `yaml:"legacy_date_type"`
}

// SuppliesConfig описывает окно выгрузки и целевую таблицу.
// Списки хранятся сырыми строками из окружения; разбор и валидация —
// обязанность планировщика.
type SuppliesConfig struct {
	Days      string `yaml:"days"`
	Statuses  string `yaml:"statuses"`
	DateTypes string `yaml:"date_types"`
	Schema    string `yaml:"schema"`
	Table     string `yaml:"table"`
}

type AppConfig struct {
	Wildberries WildberriesConfig `yaml:"wildberries"`
	Supplies    SuppliesConfig    `yaml:"supplies"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	MetricsAddr string            `yaml:"metrics_addr"`
}

func LoadConfig(filename string) (*AppConfig, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	config := &AppConfig{}
	if err := decoder.Decode(config); err != nil {
		return nil, err
	}
	return config, nil
}
