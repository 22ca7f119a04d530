package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"fbwsupplies_sync/internal/supplies/business/models"
)

// insertBatchSize держит multi-row INSERT в пределах лимитов на размер
// запроса и число параметров.
const insertBatchSize = 500

const supplyColumnCount = 9

// StoreError — отказ целевого хранилища при delete или insert. Фатален,
// частичное состояние не чинится: следующий прогон перезальёт таблицу целиком.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error on %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// SupplyRepository владеет таблицей <schema>.<table> и выполняет полный
// refresh: delete всех строк + батчевая вставка объединённого набора.
type SupplyRepository struct {
	db     *sql.DB
	schema string
	table  string
}

func NewSupplyRepository(db *sql.DB, schema, table string) *SupplyRepository {
	return &SupplyRepository{db: db, schema: schema, table: table}
}

// Replace замещает содержимое таблицы переданным набором. Обе фазы идут
// в одной транзакции: упавшая вставка откатывает и delete, таблица не
// остаётся пустой.
func (r *SupplyRepository) Replace(ctx context.Context, records []models.SupplyRecord) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &StoreError{Op: "begin", Err: err}
	}
	defer tx.Rollback()

	deleteQuery := fmt.Sprintf(`DELETE FROM %s.%s WHERE wb_key <> ''`, r.schema, r.table)
	if _, err := tx.ExecContext(ctx, deleteQuery); err != nil {
		return 0, &StoreError{Op: "delete", Err: err}
	}

	inserted := 0
	for _, batch := range chunkRecords(records, insertBatchSize) {
		query := r.buildInsertQuery(len(batch))
		if _, err := tx.ExecContext(ctx, query, recordArgs(batch)...); err != nil {
			return 0, &StoreError{Op: "insert", Err: err}
		}
		inserted += len(batch)
	}

	if err := tx.Commit(); err != nil {
		return 0, &StoreError{Op: "commit", Err: err}
	}

	log.Printf("Replaced %s.%s: %d rows", r.schema, r.table, inserted)
	return inserted, nil
}

func (r *SupplyRepository) buildInsertQuery(batchLen int) string {
	query := fmt.Sprintf(`
		INSERT INTO %s.%s (wb_key, supply_id, preorder_id, phone, create_date, supply_date, fact_date, updated_date, status_id)
		VALUES `, r.schema, r.table)

	valueStrings := make([]string, 0, batchLen)
	for i := 0; i < batchLen; i++ {
		base := i * supplyColumnCount
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9))
	}

	return query + strings.Join(valueStrings, ", ")
}

func recordArgs(batch []models.SupplyRecord) []interface{} {
	args := make([]interface{}, 0, len(batch)*supplyColumnCount)
	for _, rec := range batch {
		args = append(args, rec.WBKey, rec.SupplyID, rec.PreorderID, rec.Phone,
			rec.CreateDate, rec.SupplyDate, rec.FactDate, rec.UpdatedDate, rec.StatusID)
	}
	return args
}

func chunkRecords(records []models.SupplyRecord, size int) [][]models.SupplyRecord {
	var chunks [][]models.SupplyRecord
	for i := 0; i < len(records); i += size {
		end := i + size
		if end > len(records) {
			end = len(records)
		}
		chunks = append(chunks, records[i:end])
	}
	return chunks
}
