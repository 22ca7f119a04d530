package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"fbwsupplies_sync/config"
	"fbwsupplies_sync/internal/supplies/business/services"
	"fbwsupplies_sync/internal/supplies/business/services/get"
	"fbwsupplies_sync/internal/supplies/storage"
	"fbwsupplies_sync/metrics"
	"fbwsupplies_sync/migrations/supplies"
	"fbwsupplies_sync/pkg/dbconnect"
	"fbwsupplies_sync/pkg/dbconnect/migration"
	"fbwsupplies_sync/pkg/logger"
)

// подменяется в тестах
var timeNow = time.Now

// SyncApp — один прогон пайплайна: план → выгрузка по осям → merge →
// полный refresh таблицы. Состояние между прогонами не хранится.
type SyncApp struct {
	cfg *config.AppConfig
	dbconnect.DbConnector
	log logger.Logger
}

func NewSyncApp(cfg *config.AppConfig, dbCon dbconnect.DbConnector, log logger.Logger) *SyncApp {
	return &SyncApp{cfg: cfg, DbConnector: dbCon, log: log}
}

func (a *SyncApp) Run(ctx context.Context) error {
	if a.cfg.Wildberries.ApiKey == "" {
		return &services.ConfigurationError{Param: "WB_SUPPLIES_TOKEN", Msg: "is empty"}
	}

	planner := services.NewPlanner(a.cfg.Supplies, a.cfg.Wildberries.LegacyDateType)
	plan, err := planner.BuildPlan(timeNow())
	if err != nil {
		return err
	}

	if a.cfg.MetricsAddr != "" {
		go func() {
			if err := http.ListenAndServe(a.cfg.MetricsAddr, metrics.MetricsHandler()); err != nil {
				log.Printf("Metrics endpoint stopped: %v", err)
			}
		}()
	}

	db, err := a.Connect()
	if err != nil {
		return fmt.Errorf("connecting to Postgres: %w", err)
	}
	defer db.Close()

	migrationApply := []migration.MigrationInterface{
		&supplies.MigrationsSchema{},
		&supplies.CreateTargetSchema{Schema: a.cfg.Supplies.Schema},
		&supplies.CreateFBWSuppliesTable{Schema: a.cfg.Supplies.Schema, Table: a.cfg.Supplies.Table},
	}
	for _, m := range migrationApply {
		if err := m.UpMigration(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	sm := &metrics.SyncMetrics{}
	supplyService := get.NewSupplyService(a.cfg.Wildberries.ApiURL, a.cfg.Wildberries.ApiKey, sm)
	merger := services.NewMerger()

	// Порядок обхода осей фиксирован конфигурацией: последняя ось
	// побеждает при совпадении wb_key.
	for _, axis := range plan.Axes {
		rows, err := supplyService.FetchAxis(ctx, plan, axis)
		if err != nil {
			return err
		}
		for _, row := range rows {
			merger.Add(row)
		}
	}
	sm.UniqueSupplies.Store(int32(merger.Len()))

	a.log.Log("Fetched unique supplies: %d; period: %s → %s (MSK); requests: %d",
		merger.Len(), plan.DateStart, plan.DateEnd, sm.RequestCount.Load())

	repo := storage.NewSupplyRepository(db, a.cfg.Supplies.Schema, a.cfg.Supplies.Table)
	inserted, err := repo.Replace(ctx, merger.Records())
	if err != nil {
		return err
	}
	sm.InsertedRows.Store(int32(inserted))
	metrics.RecordRunTotals(merger.Len(), inserted)

	a.log.Log("Inserted rows: %d", inserted)
	a.log.Log("Sync completed")
	return nil
}
