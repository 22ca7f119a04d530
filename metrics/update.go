package metrics

import "sync/atomic"

// SyncMetrics — счётчики одного прогона, собираются по ходу пайплайна.
type SyncMetrics struct {
	RequestCount   atomic.Int32
	FetchedRaw     atomic.Int32
	UniqueSupplies atomic.Int32
	InsertedRows   atomic.Int32
}
