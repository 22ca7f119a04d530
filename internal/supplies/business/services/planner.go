package services

import (
	"strconv"
	"strings"
	"time"

	"fbwsupplies_sync/config"
	"fbwsupplies_sync/internal/supplies/business/models/dto/request"
)

// Окно выгрузки считается по МСК (UTC+3), как его считает WB.
var mskZone = time.FixedZone("MSK", 3*60*60)

// ISO 8601 с секундной точностью и явным смещением зоны.
const mskISOFormat = "2006-01-02T15:04:05-07:00"

// SyncPlan — абсолютное окно [DateStart, DateEnd) и проверенный список осей.
// Порядок осей — порядок обхода; он же определяет, чья запись победит
// при совпадении wb_key.
type SyncPlan struct {
	DateStart string
	DateEnd   string
	Statuses  []int
	Axes      []request.DateType
}

// Planner превращает сырые строки конфигурации в план прогона.
// Никаких побочных эффектов; все ошибки — ConfigurationError.
type Planner struct {
	cfg    config.SuppliesConfig
	legacy bool
}

func NewPlanner(cfg config.SuppliesConfig, legacy bool) *Planner {
	return &Planner{cfg: cfg, legacy: legacy}
}

// BuildPlan вычисляет окно от now назад на cfg.Days суток,
// начало окна нормализуется к полуночи МСК.
func (p *Planner) BuildPlan(now time.Time) (*SyncPlan, error) {
	days, err := strconv.Atoi(strings.TrimSpace(p.cfg.Days))
	if err != nil || days <= 0 {
		return nil, &ConfigurationError{Param: "SUPPLIES_DAYS", Msg: "expect positive integer, got " + p.cfg.Days}
	}

	statuses, err := parseStatuses(p.cfg.Statuses)
	if err != nil {
		return nil, err
	}

	axes, err := parseAxes(p.cfg.DateTypes, p.legacy)
	if err != nil {
		return nil, err
	}

	end := now.In(mskZone)
	start := end.AddDate(0, 0, -days)
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, mskZone)

	return &SyncPlan{
		DateStart: start.Format(mskISOFormat),
		DateEnd:   end.Format(mskISOFormat),
		Statuses:  statuses,
		Axes:      axes,
	}, nil
}

func parseStatuses(raw string) ([]int, error) {
	var statuses []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		status, err := strconv.Atoi(part)
		if err != nil {
			return nil, &ConfigurationError{Param: "SUPPLIES_STATUSES", Msg: "not an integer: " + part}
		}
		statuses = append(statuses, status)
	}
	if len(statuses) == 0 {
		return nil, &ConfigurationError{Param: "SUPPLIES_STATUSES", Msg: "empty status list"}
	}
	return statuses, nil
}

func parseAxes(raw string, legacy bool) ([]request.DateType, error) {
	var axes []request.DateType
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		axis, err := request.ParseDateType(part, legacy)
		if err != nil {
			return nil, &ConfigurationError{Param: "SUPPLIES_DATE_TYPES", Msg: err.Error()}
		}
		axes = append(axes, axis)
	}
	if len(axes) == 0 {
		return nil, &ConfigurationError{Param: "SUPPLIES_DATE_TYPES", Msg: "empty date type list (expect comma list like 'createDate,updatedDate')"}
	}
	return axes, nil
}
