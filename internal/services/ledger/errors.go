package services

import (
	"errors"

	"github.com/magabrotheeeer/finance-ledger/internal/recurrence"
)

// Ошибки проверки полей записи.
var (
	ErrInvalidType   = errors.New("type must be EXPENSE or INCOME")
	ErrInvalidAmount = errors.New("amount must be greater than 0 and not exceed 10000000")
	ErrInvalidDate   = errors.New("invalid entry date")
)

// Публичные коды ошибок записи.
const (
	CodeInvalidType   = "INVALID_TYPE"
	CodeInvalidAmount = "INVALID_AMOUNT"
	CodeInvalidDate   = "INVALID_DATE"
)

// ValidationCode возвращает публичный код ошибки проверки или пустую строку,
// если err не относится к проверке входных данных.
func ValidationCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidType):
		return CodeInvalidType
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidDate):
		return CodeInvalidDate
	}
	return recurrence.Code(err)
}
