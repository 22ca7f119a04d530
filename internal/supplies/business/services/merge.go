package services

import (
	"fmt"

	"fbwsupplies_sync/internal/supplies/business/models"
	"fbwsupplies_sync/internal/supplies/business/models/dto/response"
)

// Normalize проецирует сырую запись WB в каноническую форму и выводит
// её ключ дедупликации: "S:<supplyID>" если есть идентификатор поставки,
// иначе "P:<preorderID|0>".
func Normalize(raw response.Supply) models.SupplyRecord {
	var wbKey string
	if raw.SupplyID != nil {
		wbKey = fmt.Sprintf("S:%d", *raw.SupplyID)
	} else {
		pid := 0
		if raw.PreorderID != nil {
			pid = *raw.PreorderID
		}
		wbKey = fmt.Sprintf("P:%d", pid)
	}

	return models.SupplyRecord{
		WBKey:       wbKey,
		SupplyID:    raw.SupplyID,
		PreorderID:  raw.PreorderID,
		Phone:       raw.Phone,
		CreateDate:  raw.CreateDate,
		SupplyDate:  raw.SupplyDate,
		FactDate:    raw.FactDate,
		UpdatedDate: raw.UpdatedDate,
		StatusID:    raw.StatusID,
	}
}

// Merger накапливает записи по wb_key. Оси пересекаются по покрытию,
// поэтому один wb_key регулярно приходит из нескольких осей: побеждает
// последняя обработанная запись (last-write-wins), порядок осей задан
// конфигурацией. Порядок первого появления ключа сохраняется, чтобы
// вставка и сводка были воспроизводимыми.
type Merger struct {
	records map[string]models.SupplyRecord
	keys    []string
}

func NewMerger() *Merger {
	return &Merger{records: make(map[string]models.SupplyRecord)}
}

func (m *Merger) Add(raw response.Supply) {
	rec := Normalize(raw)
	if _, ok := m.records[rec.WBKey]; !ok {
		m.keys = append(m.keys, rec.WBKey)
	}
	m.records[rec.WBKey] = rec
}

func (m *Merger) Len() int {
	return len(m.records)
}

// Records возвращает объединённый набор в порядке первого появления ключей.
func (m *Merger) Records() []models.SupplyRecord {
	out := make([]models.SupplyRecord, 0, len(m.keys))
	for _, key := range m.keys {
		out = append(out, m.records[key])
	}
	return out
}
