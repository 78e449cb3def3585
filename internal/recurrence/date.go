package recurrence

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout - формат даты без времени во внешних интерфейсах.
const DateLayout = "2006-01-02"

// Date - календарная дата без времени суток. Используется для начала и конца повторения,
// тогда как срок следующего повторения хранится как time.Time.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate создаёт нормализованную дату.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf возвращает календарную дату момента в его собственной зоне.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate разбирает дату в формате 2006-01-02.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("recurrence.ParseDate: %w", err)
	}
	return DateOf(t), nil
}

// IsZero сообщает, что дата не задана.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// StartOfDay возвращает полночь даты в зоне loc.
func (d Date) StartOfDay(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// EndOfDay возвращает последний момент даты в зоне loc.
func (d Date) EndOfDay(loc *time.Location) time.Time {
	return d.StartOfDay(loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// Before сообщает, что d раньше other.
func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

// After сообщает, что d позже other.
func (d Date) After(other Date) bool {
	return d.Compare(other) > 0
}

// Compare возвращает -1, 0 или 1.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(int(d.Month) - int(other.Month))
	default:
		return sign(d.Day - other.Day)
	}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// civilDays - порядковый номер дня, удобный для вычитания дат.
func (d Date) civilDays() int64 {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON кодирует дату строкой 2006-01-02.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON принимает строку 2006-01-02 или null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value сохраняет дату в колонку DATE.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.StartOfDay(time.UTC), nil
}

// Scan читает дату из колонки DATE.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = DateOf(v)
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
	default:
		return fmt.Errorf("recurrence.Date: unsupported type %T", src)
	}
	return nil
}
