package recurrence

import (
	"errors"
	"time"
)

// Ошибки валидации настроек повторения. Возвращаются синхронно, состояние записи при этом не меняется.
var (
	ErrInvalidRecurrence = errors.New("recurring interval provided but recurring=false")
	ErrMissingFrequency  = errors.New("recurring interval is required when recurring=true")
	ErrDateOrderInvalid  = errors.New("start date cannot be after end date")
)

// Публичные коды ошибок валидации.
const (
	CodeInvalidRecurrence = "INVALID_RECURRENCE"
	CodeMissingFrequency  = "MISSING_FREQUENCY"
	CodeDateOrderInvalid  = "DATE_ORDER_INVALID"
)

// Code возвращает публичный код для ошибки валидации или пустую строку.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRecurrence):
		return CodeInvalidRecurrence
	case errors.Is(err, ErrMissingFrequency):
		return CodeMissingFrequency
	case errors.Is(err, ErrDateOrderInvalid):
		return CodeDateOrderInvalid
	}
	return ""
}

// Recurrence - изменяемые поля повторения, встроенные в запись журнала.
type Recurrence struct {
	IsRecurring bool       `json:"is_recurring"`
	Frequency   Frequency  `json:"frequency,omitempty"`
	StartDate   *Date      `json:"start_date,omitempty"`
	EndDate     *Date      `json:"end_date,omitempty"`
	NextDue     *time.Time `json:"next_due,omitempty"`
}

// Validate проверяет согласованность флага, частоты и порядка дат.
func (r Recurrence) Validate() error {
	if !r.IsRecurring && !r.Frequency.IsEmpty() {
		return ErrInvalidRecurrence
	}
	if r.IsRecurring && r.Frequency.IsEmpty() {
		return ErrMissingFrequency
	}
	if r.StartDate != nil && r.EndDate != nil && r.StartDate.After(*r.EndDate) {
		return ErrDateOrderInvalid
	}
	return nil
}

// Schedule пересчитывает NextDue с нуля.
//
// Опорная точка - начало StartDate, иначе fallback (дата самой записи), иначе now.
// Срок ищется не раньше начала сегодняшнего дня. Если он оказывается после EndDate,
// повторение выключается сразу. При выключенном повторении NextDue очищается.
func (r *Recurrence) Schedule(fallback, now time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if !r.IsRecurring {
		r.NextDue = nil
		return nil
	}

	anchor := fallback
	if r.StartDate != nil {
		anchor = r.StartDate.StartOfDay(now.Location())
	}
	if anchor.IsZero() {
		anchor = now
	}

	next := NextOnOrAfter(anchor, r.Frequency, StartOfDay(now))
	if r.PastEnd(next) {
		r.Deactivate()
		return nil
	}
	r.NextDue = &next
	return nil
}

// Disable выключает повторение по запросу пользователя: частота сбрасывается, срок очищается.
func (r *Recurrence) Disable() {
	r.IsRecurring = false
	r.Frequency = ""
	r.NextDue = nil
}

// Deactivate переводит шаблон в конечное состояние после исчерпания.
// Частота, начало и конец остаются как история.
func (r *Recurrence) Deactivate() {
	r.IsRecurring = false
	r.NextDue = nil
}

// PastEnd сообщает, что дата момента t позже включительной даты окончания.
func (r Recurrence) PastEnd(t time.Time) bool {
	if r.EndDate == nil {
		return false
	}
	return DateOf(t).After(*r.EndDate)
}

// Due сообщает, что шаблон активен и его срок наступил к моменту now.
func (r Recurrence) Due(now time.Time) bool {
	return r.IsRecurring && r.NextDue != nil && !r.NextDue.After(now)
}

// Step сдвигает NextDue на один период после материализации текущего срока.
// Возвращает false, если следующий срок вышел за EndDate и шаблон выключен.
func (r *Recurrence) Step() bool {
	if r.NextDue == nil {
		r.Deactivate()
		return false
	}
	next := Advance(*r.NextDue, r.Frequency)
	if r.PastEnd(next) {
		r.Deactivate()
		return false
	}
	r.NextDue = &next
	return true
}

// Provenance возвращает копию настроек для материализованной записи: без флага и срока.
func (r Recurrence) Provenance() Recurrence {
	out := Recurrence{Frequency: r.Frequency}
	if r.StartDate != nil {
		start := *r.StartDate
		out.StartDate = &start
	}
	if r.EndDate != nil {
		end := *r.EndDate
		out.EndDate = &end
	}
	return out
}
