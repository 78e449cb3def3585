// Package recurrence содержит модель периодичности повторяющихся записей:
// перечисление частот, функцию сдвига на один период, календарную дату без времени
// и расчёт следующего срока повторения.
package recurrence

import (
	"strings"
	"time"
)

// Frequency задаёт единицу периода повторения.
type Frequency string

const (
	// Daily - каждый день.
	Daily Frequency = "DAILY"
	// Weekly - каждую неделю.
	Weekly Frequency = "WEEKLY"
	// Monthly - каждый календарный месяц.
	Monthly Frequency = "MONTHLY"
	// Quarterly - каждые три календарных месяца.
	Quarterly Frequency = "QUARTERLY"
	// Yearly - каждый календарный год.
	Yearly Frequency = "YEARLY"
	// Custom сохраняется для совместимости и сдвигается на один месяц.
	Custom Frequency = "CUSTOM"
)

var frequencyAliases = map[string]Frequency{
	"DAILY":     Daily,
	"DAY":       Daily,
	"WEEKLY":    Weekly,
	"WEEK":      Weekly,
	"MONTHLY":   Monthly,
	"MONTH":     Monthly,
	"QUARTERLY": Quarterly,
	"QUARTER":   Quarterly,
	"YEARLY":    Yearly,
	"YEAR":      Yearly,
	"CUSTOM":    Custom,
}

// NormalizeFrequency приводит произвольный текст к Frequency.
// Известные токены и их сокращения (day, week, month, quarter, year) сводятся к каноническим значениям,
// неизвестные возвращаются в верхнем регистре как есть, пустая строка остаётся пустой.
func NormalizeFrequency(raw string) Frequency {
	f := strings.ToUpper(strings.TrimSpace(raw))
	if f == "" {
		return ""
	}
	if known, ok := frequencyAliases[f]; ok {
		return known
	}
	return Frequency(f)
}

// IsEmpty сообщает, что частота не задана.
func (f Frequency) IsEmpty() bool {
	return strings.TrimSpace(string(f)) == ""
}

// Known сообщает, что частота входит в фиксированный набор.
func (f Frequency) Known() bool {
	switch f {
	case Daily, Weekly, Monthly, Quarterly, Yearly, Custom:
		return true
	}
	return false
}

// Advance сдвигает момент ровно на один период вперёд.
//
// Месяцы и годы прибавляются с прижатием к концу месяца: 31 января + 1 месяц = 28 (29) февраля,
// 29 февраля + 1 год = 28 февраля. Прижатый день при следующих сдвигах не восстанавливается
// (31.01 -> 28.02 -> 28.03). CUSTOM и нераспознанные значения сдвигаются на один месяц.
func Advance(t time.Time, f Frequency) time.Time {
	switch NormalizeFrequency(string(f)) {
	case Daily:
		return t.AddDate(0, 0, 1)
	case Weekly:
		return t.AddDate(0, 0, 7)
	case Monthly:
		return addMonthsClamped(t, 1)
	case Quarterly:
		return addMonthsClamped(t, 3)
	case Yearly:
		return addMonthsClamped(t, 12)
	default:
		return addMonthsClamped(t, 1)
	}
}

// addMonthsClamped прибавляет месяцы, не позволяя дню перетечь в следующий месяц,
// в отличие от time.AddDate, который нормализует 31.01 + 1 месяц в 03.03.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()

	total := int(month) - 1 + months
	year += total / 12
	total %= 12
	if total < 0 {
		total += 12
		year--
	}
	target := time.Month(total + 1)

	if last := daysIn(year, target); day > last {
		day = last
	}
	return time.Date(year, target, day, hour, minute, sec, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// dayStep возвращает длину периода в днях для частот с фиксированной длиной.
func dayStep(f Frequency) (int, bool) {
	switch NormalizeFrequency(string(f)) {
	case Daily:
		return 1, true
	case Weekly:
		return 7, true
	}
	return 0, false
}
