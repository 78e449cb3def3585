package models

import (
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/finance-ledger/internal/recurrence"
)

// CreateEntryRequest используется для приёма данных новой записи из JSON-запроса.
// Частоту можно передать как frequency или как recurring_frequency.
// Дата записи принимается строкой в формате 2006-01-02 или RFC3339 и разбирается в сервисе.
type CreateEntryRequest struct {
	Amount             decimal.Decimal  `json:"amount"`
	Description        string           `json:"description" validate:"required,max=255"`
	Type               string           `json:"type,omitempty" validate:"omitempty,max=16"`
	CategoryID         *string          `json:"category_id,omitempty" validate:"omitempty,max=64"`
	Subcategory        string           `json:"subcategory,omitempty" validate:"omitempty,max=100"`
	Date               string           `json:"date,omitempty"`
	PaymentType        string           `json:"payment_type,omitempty" validate:"omitempty,max=32"`
	PaymentProvider    string           `json:"payment_provider,omitempty" validate:"omitempty,max=64"`
	LastFourDigits     string           `json:"last_four_digits,omitempty" validate:"omitempty,len=4,numeric"`
	Tags               []string         `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
	IsRecurring        bool             `json:"is_recurring"`
	Frequency          string           `json:"frequency,omitempty"`
	RecurringFrequency string           `json:"recurring_frequency,omitempty"`
	StartDate          *recurrence.Date `json:"start_date,omitempty"`
	EndDate            *recurrence.Date `json:"end_date,omitempty"`
}

// FrequencyValue возвращает частоту с учётом синонима recurring_frequency.
func (r CreateEntryRequest) FrequencyValue() string {
	if r.Frequency != "" {
		return r.Frequency
	}
	return r.RecurringFrequency
}

// UpdateEntryRequest - частичное обновление: поле nil сохраняет текущее значение.
type UpdateEntryRequest struct {
	Amount             *decimal.Decimal `json:"amount,omitempty"`
	Description        *string          `json:"description,omitempty" validate:"omitempty,min=1,max=255"`
	Type               *string          `json:"type,omitempty" validate:"omitempty,max=16"`
	CategoryID         *string          `json:"category_id,omitempty" validate:"omitempty,max=64"`
	Subcategory        *string          `json:"subcategory,omitempty" validate:"omitempty,max=100"`
	Date               *string          `json:"date,omitempty"`
	PaymentType        *string          `json:"payment_type,omitempty" validate:"omitempty,max=32"`
	PaymentProvider    *string          `json:"payment_provider,omitempty" validate:"omitempty,max=64"`
	LastFourDigits     *string          `json:"last_four_digits,omitempty" validate:"omitempty,len=4,numeric"`
	Tags               []string         `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
	IsRecurring        *bool            `json:"is_recurring,omitempty"`
	Frequency          *string          `json:"frequency,omitempty"`
	RecurringFrequency *string          `json:"recurring_frequency,omitempty"`
	StartDate          *recurrence.Date `json:"start_date,omitempty"`
	EndDate            *recurrence.Date `json:"end_date,omitempty"`
}

// FrequencyValue возвращает новую частоту, если она передана.
func (r UpdateEntryRequest) FrequencyValue() *string {
	if r.Frequency != nil {
		return r.Frequency
	}
	return r.RecurringFrequency
}

// TouchesRecurrence сообщает, что запрос меняет хотя бы одно поле повторения.
func (r UpdateEntryRequest) TouchesRecurrence() bool {
	return r.IsRecurring != nil || r.FrequencyValue() != nil || r.StartDate != nil || r.EndDate != nil
}

// SetRecurringRequest включает или выключает повторение и меняет интервал.
type SetRecurringRequest struct {
	IsRecurring        *bool  `json:"is_recurring" validate:"required"`
	Frequency          string `json:"frequency,omitempty"`
	RecurringFrequency string `json:"recurring_frequency,omitempty"`
}

// FrequencyValue возвращает частоту с учётом синонима recurring_frequency.
func (r SetRecurringRequest) FrequencyValue() string {
	if r.Frequency != "" {
		return r.Frequency
	}
	return r.RecurringFrequency
}
