package services

import "fmt"

// ConfigurationError — непригодная конфигурация прогона: пустой токен,
// пустой или нечитаемый список статусов/осей. Обнаруживается до первого
// сетевого вызова и сразу фатальна.
type ConfigurationError struct {
	Param string
	Msg   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Param, e.Msg)
}
