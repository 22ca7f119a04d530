package get

import (
	"errors"
	"fmt"
)

// ErrRetryExhausted возвращается, когда бюджет повторов по 429 исчерпан.
var ErrRetryExhausted = errors.New("retry attempts exhausted")

// ProtocolError — нарушение контракта WB API: либо статус, отличный от
// 200/429, либо 200 с телом, не являющимся массивом. Не ретраится:
// молчаливое продолжение рискует испорченной выгрузкой.
type ProtocolError struct {
	StatusCode int
	Body       string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("WB API %d: %s", e.StatusCode, e.Body)
}
