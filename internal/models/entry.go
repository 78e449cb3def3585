// Package models содержит доменные структуры журнала: запись о доходе или расходе,
// её способ оплаты и служебные метаданные, а также DTO для приёма JSON-запросов.
package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/finance-ledger/internal/recurrence"
)

// EntryType - направление движения денег.
type EntryType string

// Допустимые типы записей.
const (
	EntryTypeExpense EntryType = "EXPENSE"
	EntryTypeIncome  EntryType = "INCOME"
)

// Значения метаданных по умолчанию.
const (
	CreatedByUser      = "user"
	CreatedByScheduler = "scheduler"
	SourceManual       = "manual"
	SourceRecurring    = "recurring"
	DefaultPaymentType = "cash"
)

// PaymentMethod описывает, чем оплачена запись.
type PaymentMethod struct {
	Type           string `json:"type"`
	Provider       string `json:"provider,omitempty"`
	LastFourDigits string `json:"last_four_digits,omitempty"`
}

// Metadata - служебные поля записи. Version растёт при каждом изменении пользователем.
type Metadata struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by"`
	Source    string    `json:"source"`
	Version   int       `json:"version"`
}

// NewMetadata возвращает метаданные новой записи.
func NewMetadata(now time.Time, createdBy, source string) Metadata {
	return Metadata{
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: createdBy,
		Source:    source,
		Version:   1,
	}
}

// Touch отмечает изменение записи.
func (m *Metadata) Touch(now time.Time) {
	m.UpdatedAt = now
	m.Version++
}

// Entry - запись журнала. Запись с включённым повторением служит шаблоном,
// из которого планировщик порождает конкретные записи; у порождённых записей заполнен TemplateID.
type Entry struct {
	ID            int64                 `json:"id"`
	UserUID       string                `json:"user_uid"`
	Amount        decimal.Decimal       `json:"amount"`
	Type          EntryType             `json:"type"`
	Description   string                `json:"description"`
	CategoryID    *string               `json:"category_id,omitempty"`
	Subcategory   string                `json:"subcategory,omitempty"`
	Date          time.Time             `json:"date"`
	PaymentMethod PaymentMethod         `json:"payment_method"`
	Tags          StringArray           `json:"tags"`
	Recurring     recurrence.Recurrence `json:"recurring"`
	TemplateID    *int64                `json:"template_id,omitempty"`
	Metadata      Metadata              `json:"metadata"`
}
