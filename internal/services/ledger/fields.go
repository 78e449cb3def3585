package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/finance-ledger/internal/models"
)

var (
	minAmount = decimal.RequireFromString("0.01")
	maxAmount = decimal.NewFromInt(10_000_000)
)

// maxFutureSkew - насколько дата записи может опережать текущий момент.
const maxFutureSkew = 24 * time.Hour

func normalizeType(raw string) (models.EntryType, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", string(models.EntryTypeExpense):
		return models.EntryTypeExpense, nil
	case string(models.EntryTypeIncome):
		return models.EntryTypeIncome, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, raw)
}

func checkAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	amount = amount.Round(2)
	if amount.LessThan(minAmount) || amount.GreaterThan(maxAmount) {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidAmount, amount.String())
	}
	return amount, nil
}

// parseEntryDate принимает 2006-01-02 (начало дня по локальному времени) или RFC3339.
// Пустая строка означает now. Результат всегда в зоне now, как и значения, прочитанные из базы.
func parseEntryDate(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now, nil
	}

	var (
		date time.Time
		err  error
	)
	if len(raw) == len(time.DateOnly) {
		date, err = time.ParseInLocation(time.DateOnly, raw, now.Location())
	} else {
		date, err = time.Parse(time.RFC3339, raw)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, raw)
	}
	date = date.In(now.Location())
	if date.After(now.Add(maxFutureSkew)) {
		return time.Time{}, fmt.Errorf("%w: %s is too far in the future", ErrInvalidDate, raw)
	}
	return date, nil
}

func paymentTypeOrDefault(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return models.DefaultPaymentType
	}
	return strings.TrimSpace(raw)
}
