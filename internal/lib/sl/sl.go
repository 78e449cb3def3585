// Package sl содержит вспомогательные функции для формирования полей лога slog.
package sl

import (
	"log/slog"

	"github.com/shopspring/decimal"
)

// Err возвращает slog.Attr с ключом "error" и текстом ошибки. Для nil значение пустое.
//
// Пример:
//
//	log.Error("failed to save occurrence", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Money записывает сумму строкой без потери точности.
func Money(key string, amount decimal.Decimal) slog.Attr {
	return slog.String(key, amount.StringFixed(2))
}
