package models

// SupplyRecord — каноническая запись поставки, ключ дедупликации wb_key.
// Строится заново на каждом прогоне и целиком замещает содержимое таблицы.
type SupplyRecord struct {
	WBKey       string
	SupplyID    *int
	PreorderID  *int
	Phone       *string
	CreateDate  *string
	SupplyDate  *string
	FactDate    *string
	UpdatedDate *string
	StatusID    int
}
