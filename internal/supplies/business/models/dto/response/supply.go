package response

// Supply — сырая запись из ответа /api/v1/supplies.
// Даты приходят ISO-строками с зоной и дальше не интерпретируются:
// PG сам приведёт их к timestamptz.
type Supply struct {
	SupplyID    *int    `json:"supplyID"`
	PreorderID  *int    `json:"preorderID"`
	Phone       *string `json:"phone"`
	CreateDate  *string `json:"createDate"`
	SupplyDate  *string `json:"supplyDate"`
	FactDate    *string `json:"factDate"`
	UpdatedDate *string `json:"updatedDate"`
	StatusID    int     `json:"statusID"`
}
