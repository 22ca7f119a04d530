package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// DateType — ось фильтрации по дате в POST /api/v1/supplies.
// WB встречался в двух кодировках: каноническая строковая
// ('createDate'|'supplyDate'|'factDate'|'updatedDate') и устаревшая
// числовая (1..4). Кодировка выбирается один раз при разборе конфигурации,
// сборка запроса про неё больше не знает.
type DateType struct {
	name   string
	code   int
	legacy bool
}

var dateTypeCodes = map[string]int{
	"createDate":  1,
	"supplyDate":  2,
	"factDate":    3,
	"updatedDate": 4,
}

var dateTypeNames = map[int]string{
	1: "createDate",
	2: "supplyDate",
	3: "factDate",
	4: "updatedDate",
}

// ParseDateType принимает ось в любой из двух форм ("createDate" или "1").
// legacy фиксирует числовое кодирование при сериализации запроса.
func ParseDateType(raw string, legacy bool) (DateType, error) {
	if code, ok := dateTypeCodes[raw]; ok {
		return DateType{name: raw, code: code, legacy: legacy}, nil
	}
	if code, err := strconv.Atoi(raw); err == nil {
		if name, ok := dateTypeNames[code]; ok {
			return DateType{name: name, code: code, legacy: legacy}, nil
		}
	}
	return DateType{}, fmt.Errorf("unknown date type %q", raw)
}

func (t DateType) String() string {
	return t.name
}

func (t DateType) Code() int {
	return t.code
}

func (t DateType) MarshalJSON() ([]byte, error) {
	if t.legacy {
		return json.Marshal(t.code)
	}
	return json.Marshal(t.name)
}

func (t *DateType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		parsed, err := ParseDateType(name, false)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	}
	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("date type: expect string or integer, got %s", data)
	}
	parsed, err := ParseDateType(strconv.Itoa(code), true)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type DateFilter struct {
	Start string   `json:"start"`
	End   string   `json:"end"`
	Type  DateType `json:"Type"`
}

type SuppliesRequest struct {
	Dates     []DateFilter `json:"dates"`
	StatusIDs []int        `json:"statusIDs"`
}

func (r *SuppliesRequest) CreateRequestBody() (*bytes.Buffer, error) {
	jsonData, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshalling supplies request: %w", err)
	}
	return bytes.NewBuffer(jsonData), nil
}
